package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIBaseURL string `env:"API_BASE_URL, default=http://localhost:8080"`
	ChatURL    string `env:"CHAT_URL"`
	Env        string `env:"ENV,          default=development"`
	LogLevel   string `env:"LOG_LEVEL,    default=info"`

	Credential CredentialConfig
	Redis      RedisConfig
	DevServer  DevServerConfig
}

type CredentialConfig struct {
	Backend string `env:"CREDENTIAL_BACKEND, default=file"`
	Key     string `env:"CREDENTIAL_KEY,     default=token"`
	Dir     string `env:"CREDENTIAL_DIR"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type DevServerConfig struct {
	Port      string `env:"DEVSERVER_PORT, default=8080"`
	JWTSecret string `env:"JWT_SECRET,     default=dev-secret"`
}

// IsDevelopment reports whether console-friendly output should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads a .env file when one exists in the working directory, then
// the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith processes configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.derive(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) derive() error {
	base, err := url.Parse(c.APIBaseURL)
	if err != nil || base.Host == "" {
		return fmt.Errorf("config: API_BASE_URL %q is not an absolute URL", c.APIBaseURL)
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	if c.ChatURL == "" {
		scheme := "ws"
		if base.Scheme == "https" {
			scheme = "wss"
		}
		c.ChatURL = (&url.URL{Scheme: scheme, Host: base.Host, Path: "/chat"}).String()
	}

	if c.Credential.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("config: resolve home directory: %w", err)
		}
		c.Credential.Dir = filepath.Join(home, ".portal")
	}
	return nil
}
