package domain

import (
	"encoding/base64"
	"fmt"
)

// PDF is a document delivered inline as base64 text.
type PDF struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// Decode returns the raw document bytes.
func (p PDF) Decode() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.Filename, err)
	}
	return b, nil
}

// Invoice is a billing document attached to a building.
type Invoice struct {
	ID          int64   `json:"id"`
	BuildingID  int64   `json:"buildingId"`
	Number      string  `json:"number"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	IssuedAt    string  `json:"issuedAt,omitempty"`
	Filename    string  `json:"filename,omitempty"`
	Document    string  `json:"document,omitempty"`
}
