// Package token decodes portal credentials into identity claims.
//
// Credentials are HS256 JWTs signed by the API. The client never holds the
// signing key, so the payload is read without signature verification; the API
// remains the authority and rejects tampered tokens on every call.
package token

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/obraportal/portal-client/internal/core/domain"
)

type portalClaims struct {
	ID         json.Number  `json:"id"`
	UserType   string       `json:"userType"`
	RoleID     json.Number  `json:"roleId"`
	BuildingID *json.Number `json:"buildingId"`
	jwt.RegisteredClaims
}

// JWTDecoder implements ports.ClaimsDecoder.
type JWTDecoder struct {
	parser *jwt.Parser
}

func NewJWTDecoder() *JWTDecoder {
	return &JWTDecoder{parser: jwt.NewParser()}
}

// Decode returns the claims carried by token. Any structural problem yields an
// error wrapping domain.ErrDecodeFailure and zero claims.
func (d *JWTDecoder) Decode(token string) (domain.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Claims{}, fmt.Errorf("%w: empty token", domain.ErrDecodeFailure)
	}

	var pc portalClaims
	if _, _, err := d.parser.ParseUnverified(token, &pc); err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}

	subject, err := subjectID(pc)
	if err != nil {
		return domain.Claims{}, err
	}

	kind := domain.UserKind(strings.ToUpper(strings.TrimSpace(pc.UserType)))
	if kind == "" {
		return domain.Claims{}, fmt.Errorf("%w: missing userType", domain.ErrDecodeFailure)
	}

	claims := domain.Claims{SubjectID: subject, Kind: kind}

	if pc.RoleID != "" {
		role, err := strconv.Atoi(pc.RoleID.String())
		if err != nil {
			return domain.Claims{}, fmt.Errorf("%w: roleId %q", domain.ErrDecodeFailure, pc.RoleID)
		}
		claims.RoleID = role
	}

	if pc.BuildingID != nil && *pc.BuildingID != "" {
		b, err := pc.BuildingID.Int64()
		if err != nil {
			return domain.Claims{}, fmt.Errorf("%w: buildingId %q", domain.ErrDecodeFailure, *pc.BuildingID)
		}
		claims.BuildingID = &b
	}

	return claims, nil
}

// subjectID prefers the numeric id claim and falls back to a numeric sub.
func subjectID(pc portalClaims) (int64, error) {
	raw := pc.ID.String()
	if raw == "" {
		raw = pc.Subject
	}
	if raw == "" {
		return 0, fmt.Errorf("%w: missing subject id", domain.ErrDecodeFailure)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject id %q", domain.ErrDecodeFailure, raw)
	}
	return id, nil
}
