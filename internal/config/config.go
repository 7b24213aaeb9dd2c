// Package config loads the server configuration from YAML, .env and STUDIO_* variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"studio/internal/domain/account"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// TokenConfig maps a bcrypt-hashed API/login token to a caller identity.
type TokenConfig struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
	Hash string `yaml:"hash"`
}

// Credential returns the login credential this entry configures.
func (t TokenConfig) Credential() account.Credential {
	return account.Credential{Name: t.Name, Role: t.Role, Hash: t.Hash}
}

// DatabaseConfig selects the Event Store backend. An empty Path keeps items in memory.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	SlowQueryMs int    `yaml:"slow_query_ms"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EmailConfig configures outbound mail. An empty ResendAPIKey logs instead of sending.
type EmailConfig struct {
	ResendAPIKey    string   `yaml:"resend_api_key"`
	From            string   `yaml:"from"`
	StaffRecipients []string `yaml:"staff_recipients"`
}

// DigestConfig schedules the daily agenda email.
type DigestConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// Config is the top-level application configuration.
type Config struct {
	Listen             string         `yaml:"listen"`
	Env                string         `yaml:"env"`
	Timezone           string         `yaml:"timezone"`
	CSRFKey            string         `yaml:"csrf_key"`
	TrustedOrigins     []string       `yaml:"trusted_origins"`
	RateLimitPerSecond int            `yaml:"rate_limit_per_second"`
	Database           DatabaseConfig `yaml:"database"`
	Log                LogConfig      `yaml:"log"`
	Tokens             []TokenConfig  `yaml:"tokens"`
	Email              EmailConfig    `yaml:"email"`
	Digest             DigestConfig   `yaml:"digest"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:             "127.0.0.1:8080",
		Env:                EnvDevelopment,
		Timezone:           "UTC",
		TrustedOrigins:     []string{"localhost:8080", "127.0.0.1:8080"},
		RateLimitPerSecond: 10,
		Log:                LogConfig{Level: "info", Format: "text"},
		Tokens:             []TokenConfig{},
		Email:              EmailConfig{From: "Studio Calendar <calendar@localhost>", StaffRecipients: []string{}},
		Digest:             DigestConfig{Enabled: false, Schedule: "0 7 * * *"},
	}
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.Env == "" {
		c.Env = d.Env
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.TrustedOrigins == nil {
		c.TrustedOrigins = d.TrustedOrigins
	}
	if c.RateLimitPerSecond <= 0 {
		c.RateLimitPerSecond = d.RateLimitPerSecond
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Tokens == nil {
		c.Tokens = d.Tokens
	}
	if c.Email.From == "" {
		c.Email.From = d.Email.From
	}
	if c.Email.StaffRecipients == nil {
		c.Email.StaffRecipients = d.Email.StaffRecipients
	}
	if c.Digest.Schedule == "" {
		c.Digest.Schedule = d.Digest.Schedule
	}
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none) into the
// process environment. Missing files are skipped; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the YAML file at path, applies STUDIO_* overrides and validates the result.
// An empty path skips the file. A missing file is created with defaults (0600).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if err := Save(path, cfg); err != nil {
				return nil, err
			}
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			cfg = &Config{}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from STUDIO_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("STUDIO_LISTEN", &c.Listen)
	str("STUDIO_ENV", &c.Env)
	str("STUDIO_TIMEZONE", &c.Timezone)
	str("STUDIO_CSRF_KEY", &c.CSRFKey)
	str("STUDIO_DB_PATH", &c.Database.Path)
	str("STUDIO_LOG_LEVEL", &c.Log.Level)
	str("STUDIO_LOG_FORMAT", &c.Log.Format)
	str("STUDIO_RESEND_API_KEY", &c.Email.ResendAPIKey)
	str("STUDIO_EMAIL_FROM", &c.Email.From)
	if v, ok := lookup("STUDIO_STAFF_RECIPIENTS"); ok && v != "" {
		c.Email.StaffRecipients = splitList(v)
	}
	if v, ok := lookup("STUDIO_RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimitPerSecond = n
		}
	}
	if v, ok := lookup("STUDIO_DIGEST_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Digest.Enabled = b
		}
	}
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".studio-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// IsProduction reports whether Env is production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Location returns the configured time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CSRFKeyBytes decodes CSRFKey. The second result is false when no key is configured.
func (c *Config) CSRFKeyBytes() ([]byte, bool) {
	if c.CSRFKey == "" {
		return nil, false
	}
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, false
	}
	return key, true
}

// SlowQuery returns the slow-query log threshold; zero means the storage default.
func (c *Config) SlowQuery() time.Duration {
	return time.Duration(c.Database.SlowQueryMs) * time.Millisecond
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
