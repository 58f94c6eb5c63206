package credential

import (
	"context"
	"fmt"

	"github.com/obraportal/portal-client/internal/core/ports"
)

const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a credential backend.
type Options struct {
	Backend   string
	Key       string
	Dir       string
	RedisAddr string
	RedisDB   int
}

// Open returns the store for opts.Backend together with a release func.
func Open(ctx context.Context, opts Options) (ports.CredentialStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Backend {
	case BackendFile, "":
		s, err := NewFileStore(opts.Dir, opts.Key)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case BackendRedis:
		s, err := Connect(ctx, RedisConfig{Addr: opts.RedisAddr, DB: opts.RedisDB, Key: opts.Key})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown credential backend %q", opts.Backend)
	}
}
