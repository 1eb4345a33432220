package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RecipePath      string // .hcl, .yaml, .yml or .json
	CredentialsPath string // optional .toml, .yaml or .yml

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// PollInterval and PollTimeout are the await_completion defaults. A zero
	// PollInterval takes the monitor's; a zero PollTimeout means one poll.
	PollInterval time.Duration
	PollTimeout  time.Duration
	// RequestTimeout bounds one round trip to the farm.
	RequestTimeout time.Duration
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RecipePath == "" {
		return nil, errors.New("RecipePath is a required configuration field and cannot be empty")
	}
	for name, d := range map[string]time.Duration{
		"poll-interval":   cfg.PollInterval,
		"poll-timeout":    cfg.PollTimeout,
		"request-timeout": cfg.RequestTimeout,
	} {
		if d < 0 {
			return nil, fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck-port out of range: %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
