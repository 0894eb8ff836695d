package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		bind:         "127.0.0.1",
		port:         8080,
		timeLimit:    60,
		rounds:       3,
		expiryDelay:  time.Second,
		handoffDelay: 2 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"port too low", func(c *Config) { c.port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.port = 70000 }, "invalid port"},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, "--tls-cert and --tls-key"},
		{"time limit too short", func(c *Config) { c.timeLimit = 5 }, "invalid time limit"},
		{"time limit too long", func(c *Config) { c.timeLimit = 600 }, "invalid time limit"},
		{"no rounds", func(c *Config) { c.rounds = 0 }, "invalid round count"},
		{"too many rounds", func(c *Config) { c.rounds = 11 }, "invalid round count"},
		{"negative delay", func(c *Config) { c.handoffDelay = -time.Second }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.validate(), tt.errMsg)
		})
	}
}

func TestConfig_Limits(t *testing.T) {
	cfg := validConfig()
	cfg.timeLimit = 90
	cfg.rounds = 5
	cfg.handoffDelay = 250 * time.Millisecond

	l := cfg.limits()
	assert.Equal(t, 90, l.DefaultTimeLimit)
	assert.Equal(t, 5, l.DefaultRounds)
	assert.Equal(t, time.Second, l.ExpiryDelay)
	assert.Equal(t, 250*time.Millisecond, l.HandoffDelay)
	assert.Equal(t, 180, l.TimeLimitMax)
}

func TestConfig_Scheme(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}

func TestNewCmd_Flags(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	require.NoError(t, cmd.Flags().Parse([]string{"--time_limit", "45", "--rounds", "2", "-p", "9000"}))
	assert.Equal(t, 45, cfg.timeLimit)
	assert.Equal(t, 2, cfg.rounds)
	assert.Equal(t, 9000, cfg.port)
	assert.Equal(t, 2*time.Second, cfg.handoffDelay)
}
