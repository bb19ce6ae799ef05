package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/florianilch/hootsweet/internal/tokenstorage"
	"github.com/florianilch/hootsweet/tokensource"
)

// EnvPrefix prefixes every environment variable read into the config.
// Nested keys are separated by a double underscore: HOOTSWEET_CLIENT__ID.
const EnvPrefix = "HOOTSWEET_"

// TokenEnvVar holds the token JSON when auth.storage is "env".
const TokenEnvVar = EnvPrefix + "TOKEN"

// TokenStorageType selects where tokens are persisted.
type TokenStorageType string

const (
	TokenStorageTypeFile    TokenStorageType = "file"
	TokenStorageTypeKeyring TokenStorageType = "keyring"
	TokenStorageTypeEnv     TokenStorageType = "env"
)

// Config is the complete CLI configuration.
type Config struct {
	Client ClientConfig `koanf:"client"`
	Auth   AuthConfig   `koanf:"auth"`
	Log    LogConfig    `koanf:"log"`
}

// ClientConfig configures the Hootsuite API client.
type ClientConfig struct {
	ID          string        `koanf:"id" validate:"required"`
	Secret      string        `koanf:"secret" validate:"required"`
	RedirectURI string        `koanf:"redirect_uri" validate:"required,url"`
	Scopes      []string      `koanf:"scopes"`
	BaseURL     string        `koanf:"base_url" validate:"required,url"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	ExpirySkew  time.Duration `koanf:"expiry_skew" validate:"gte=0"`
}

// AuthConfig configures token persistence.
type AuthConfig struct {
	Storage        TokenStorageType `koanf:"storage" validate:"oneof=file keyring env"`
	File           string           `koanf:"file" validate:"required_if=Storage file"`
	KeyringService string           `koanf:"keyring_service" validate:"required_if=Storage keyring"`
	KeyringUser    string           `koanf:"keyring_user" validate:"required_if=Storage keyring"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
	// Exporter additionally ships logs through OpenTelemetry.
	Exporter string `koanf:"exporter" validate:"oneof=none stdout otlp-http otlp-grpc"`
	// Endpoint overrides the OTLP endpoint (host:port).
	Endpoint string `koanf:"endpoint"`
}

// NewTokenStore creates the token store selected by the config.
func (c AuthConfig) NewTokenStore() (tokenstorage.Store, error) {
	switch c.Storage {
	case TokenStorageTypeFile:
		return tokenstorage.NewFileStore(c.File), nil
	case TokenStorageTypeKeyring:
		return tokenstorage.NewKeyringStore(c.KeyringService, c.KeyringUser), nil
	case TokenStorageTypeEnv:
		return tokenstorage.NewEnvStore(TokenEnvVar, nil), nil
	default:
		return nil, fmt.Errorf("unsupported token storage %q", c.Storage)
	}
}

// DefaultConfigPath returns the config file used when none is given.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hootsweet", "config.toml")
}

func defaults() map[string]any {
	tokenFile := "hootsweet-token.json"
	if dir, err := os.UserConfigDir(); err == nil {
		tokenFile = filepath.Join(dir, "hootsweet", "token.json")
	}

	return map[string]any{
		"client.redirect_uri":  "http://localhost:8000/",
		"client.scopes":        []string{tokensource.DefaultScope},
		"client.base_url":      tokensource.BaseURL,
		"client.timeout":       30 * time.Second,
		"client.expiry_skew":   tokensource.DefaultExpirySkew,
		"auth.storage":         string(TokenStorageTypeFile),
		"auth.file":            tokenFile,
		"auth.keyring_service": "hootsweet",
		"auth.keyring_user":    "default",
		"log.level":            "info",
		"log.format":           "text",
		"log.exporter":         "none",
	}
}

// LoadConfig builds the config from defaults, the TOML file at path, the
// environment and finally overrides, each layer taking precedence over the
// previous one. An empty path falls back to DefaultConfigPath when that file exists.
func LoadConfig(path string, overrides map[string]any, environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		err := k.Load(file.Provider(path), toml.Parser())
		switch {
		case err == nil:
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
		EnvironFunc:   environ,
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("loading overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// transformEnv maps HOOTSWEET_CLIENT__REDIRECT_URI to client.redirect_uri.
// The token variable is consumed by the env token store, not the config.
func transformEnv(k, v string) (string, any) {
	if k == TokenEnvVar {
		return "", nil
	}
	key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if key == "client.scopes" {
		return key, strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
	return key, v
}
