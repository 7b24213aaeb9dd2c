package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/robfig/cron/v3"

	"studio/internal/domain/account"
)

// Validate checks the configuration and returns criterio.FieldErrors listing every problem.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("listen", c.Listen, notEmpty),
		criterio.Run("env", c.Env, oneOf(EnvDevelopment, EnvProduction)),
		criterio.Run("timezone", c.Timezone, validTimezone),
		criterio.Run("log.level", c.Log.Level, validLogLevel),
		criterio.Run("log.format", c.Log.Format, oneOf("text", "json")),
		c.validateRateLimit(),
		c.validateCSRFKey(),
		c.validateTokens(),
		c.validateEmail(),
		c.validateDigest(),
	)
}

func (c *Config) validateCSRFKey() error {
	if c.CSRFKey == "" {
		if c.IsProduction() {
			return criterio.NewFieldErrors("csrf_key", errors.New("required in production"))
		}
		return nil
	}
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil || len(key) != 32 {
		return criterio.NewFieldErrors("csrf_key", errors.New("must be 64 hex characters (32 bytes)"))
	}
	return nil
}

func (c *Config) validateTokens() error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool)
	for i, tok := range c.Tokens {
		field := fmt.Sprintf("tokens[%d]", i)
		cred := tok.Credential()
		if err := cred.Validate(); err != nil {
			switch {
			case errors.Is(err, account.ErrNameRequired):
				errs = errs.Append(field+".name", errors.New("is required"))
			case errors.Is(err, account.ErrRoleRequired):
				errs = errs.Append(field+".role", errors.New("is required"))
			default:
				errs = errs.Append(field+".hash", fmt.Errorf("not a bcrypt hash: %w", err))
			}
		}
		if tok.Name != "" && seen[tok.Name] {
			errs = errs.Append(field+".name", fmt.Errorf("duplicate token name %q", tok.Name))
		}
		seen[tok.Name] = true
	}
	return errs.ToError()
}

func (c *Config) validateEmail() error {
	var errs criterio.FieldErrorsBuilder
	if c.Email.ResendAPIKey != "" {
		if _, err := mail.ParseAddress(c.Email.From); err != nil {
			errs = errs.Append("email.from", fmt.Errorf("invalid address: %w", err))
		}
	}
	for i, addr := range c.Email.StaffRecipients {
		if _, err := mail.ParseAddress(addr); err != nil {
			errs = errs.Append(fmt.Sprintf("email.staff_recipients[%d]", i), fmt.Errorf("invalid address %q", addr))
		}
	}
	return errs.ToError()
}

func (c *Config) validateDigest() error {
	if !c.Digest.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(c.Digest.Schedule); err != nil {
		return criterio.NewFieldErrors("digest.schedule", fmt.Errorf("invalid cron spec: %w", err))
	}
	return nil
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if c.RateLimitPerSecond <= 0 {
		return criterio.NewFieldErrors("rate_limit_per_second", errors.New("must be positive"))
	}
	return nil
}

func oneOf(allowed ...string) func(string) error {
	return func(s string) error {
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

func validTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("unknown timezone %q", tz)
	}
	return nil
}

func validLogLevel(s string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("unknown level %q", s)
	}
	return nil
}
