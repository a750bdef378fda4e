// Package config loads the service settings from the environment, with
// command-line flags taking precedence.
//
// Environment variables:
//
//   - PORT: HTTP listen port. Default: 3000
//   - MONGO_URI: MongoDB connection string. Default: mongodb://localhost:27017/authentication
//   - MONGO_DATABASE: database holding the identities collection. Default: authentication
//   - JWT_SECRET: HMAC secret for signing bearer tokens. Required.
//   - LOG_LEVEL: debug, info, warn or error. Default: info
//   - TOKEN_TTL: token lifetime such as 24h. Default: 0, tokens never expire
//   - PASSWORD_HASHING: store bcrypt hashes instead of clear text. Default: false
//   - BCRYPT_COST: bcrypt work factor when hashing is on. Default: 12
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingSecret     = errors.New("JWT_SECRET is required")
	ErrInvalidBcryptCost = errors.New("BCRYPT_COST out of range")
	ErrInvalidTokenTTL   = errors.New("TOKEN_TTL must not be negative")
)

type Config struct {
	Port            int           `mapstructure:"PORT"`
	MongoURI        string        `mapstructure:"MONGO_URI"`
	MongoDatabase   string        `mapstructure:"MONGO_DATABASE"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	TokenTTL        time.Duration `mapstructure:"TOKEN_TTL"`
	PasswordHashing bool          `mapstructure:"PASSWORD_HASHING"`
	BcryptCost      int           `mapstructure:"BCRYPT_COST"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"port":             "PORT",
	"mongo-uri":        "MONGO_URI",
	"mongo-database":   "MONGO_DATABASE",
	"log-level":        "LOG_LEVEL",
	"token-ttl":        "TOKEN_TTL",
	"password-hashing": "PASSWORD_HASHING",
}

// AddFlags registers the flags Load reads on cmd.
func AddFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("port", 3000, "HTTP listen port")
	f.String("mongo-uri", "mongodb://localhost:27017/authentication", "MongoDB connection string")
	f.String("mongo-database", "authentication", "MongoDB database name")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.Duration("token-ttl", 0, "token lifetime, 0 for tokens that never expire")
	f.Bool("password-hashing", false, "store bcrypt password hashes")
}

// Load builds a Config from the environment. Flags registered with AddFlags
// on cmd override the environment when they were set explicitly. cmd may be nil.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", 3000)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/authentication")
	v.SetDefault("MONGO_DATABASE", "authentication")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TOKEN_TTL", "0s")
	v.SetDefault("PASSWORD_HASHING", false)
	v.SetDefault("BCRYPT_COST", 12)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for name, key := range flagKeys {
			if fl := cmd.Flags().Lookup(name); fl != nil && fl.Changed {
				v.Set(key, fl.Value.String())
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: %d", ErrInvalidBcryptCost, c.BcryptCost)
	}
	if c.TokenTTL < 0 {
		return ErrInvalidTokenTTL
	}
	return nil
}
