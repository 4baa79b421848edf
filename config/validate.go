package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingDatabase  = errors.New("database host and dbname are required")
	ErrInvalidPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidLogLevel  = errors.New("logging level must be one of debug, info, warn, error")
	ErrInvalidLogFormat = errors.New("logging format must be text or json")
	ErrInvalidTimezone  = errors.New("scheduling default_timezone is not a valid IANA zone")
	ErrInvalidEncKey    = errors.New("authentication encryption_key must be 64 hex characters")
)

func (c *Config) Validate() error {
	var errs []error

	if c.Database.Host == "" || c.Database.DBName == "" {
		errs = append(errs, ErrMissingDatabase)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, ErrInvalidLogLevel)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, ErrInvalidLogFormat)
	}

	if c.Scheduling.DefaultTimezone != "" {
		if _, err := time.LoadLocation(c.Scheduling.DefaultTimezone); err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidTimezone, err))
		}
	}

	if k := c.Authentication.EncryptionKey; k != "" {
		if b, err := hex.DecodeString(k); err != nil || len(b) != 32 {
			errs = append(errs, ErrInvalidEncKey)
		}
	}

	return errors.Join(errs...)
}

// Location returns the default clinic location, falling back to UTC.
func (c SchedulingConfig) Location() *time.Location {
	if c.DefaultTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CacheTTL returns the day snapshot TTL with a one minute floor when unset.
func (c SchedulingConfig) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
