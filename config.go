package accounts

import (
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// Config is the runtime configuration surface. The signing secret, token
// lifetime, and bcrypt cost have no literal fallbacks; deployments must
// supply them and the process fails fast when they are missing.
type Config struct {
	TokenSecret     string `env:"TOKEN_SECRET,required"`
	TokenTTLSeconds int    `env:"TOKEN_TTL_SECONDS,required"`
	TokenIssuer     string `env:"TOKEN_ISSUER" envDefault:"go-accounts"`
	BcryptCost      int    `env:"BCRYPT_COST,required"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	DBDSN    string `env:"DB_DSN" envDefault:"file:accounts.db?cache=shared&_fk=1"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to load configuration from environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the invariants env tags cannot express.
func (c *Config) Validate() error {
	if c.TokenTTLSeconds <= 0 {
		return goerrors.New("TOKEN_TTL_SECONDS must be positive", goerrors.CategoryBadInput)
	}

	if c.BcryptCost <= 0 {
		return goerrors.New("BCRYPT_COST must be positive", goerrors.CategoryBadInput)
	}

	return nil
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}
