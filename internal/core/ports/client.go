package ports

import (
	"context"
	"encoding/json"
)

// ResourceClient performs one request against the portal API and returns the
// parsed JSON body. Failures are always *domain.FetchError.
type ResourceClient interface {
	Call(ctx context.Context, method, path string, body any, enc Encoding) (json.RawMessage, error)
}

// Encoding selects how a request body is serialized.
type Encoding int

const (
	EncodingNone Encoding = iota
	EncodingJSON
	EncodingMultipart
)

type anonymousKey struct{}

// Anonymous marks ctx so the request goes out without the stored credential.
// A 401/403 on such a request leaves the credential alone.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func IsAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}
