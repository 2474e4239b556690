package config

import (
	"testing"
	"time"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/testutil"
)

func TestDefault_IsValid(t *testing.T) {
	testutil.AssertNoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"zero timeout", func(c *Config) { c.AIThinkTimeout = 0 }},
		{"no workers", func(c *Config) { c.SearchWorkers = 0 }},
		{"difficulty too low", func(c *Config) { c.DefaultDifficulty = 0 }},
		{"difficulty too high", func(c *Config) { c.DefaultDifficulty = 4 }},
		{"clock interval", func(c *Config) { c.ClockInterval = -time.Second }},
		{"read buffer", func(c *Config) { c.WSReadBufferSize = 0 }},
		{"no origins", func(c *Config) { c.AllowedOrigins = " , " }},
		{"wildcard origin", func(c *Config) { c.AllowedOrigins = "*" }},
		{"wildcard among origins", func(c *Config) { c.AllowedOrigins = "http://a.test, *" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			testutil.AssertErrorIs(t, cfg.Validate(), errors.ErrInvalidConfig)
		})
	}
}

func TestOrigins(t *testing.T) {
	cfg := Config{AllowedOrigins: " http://a.test, ,http://b.test "}
	testutil.AssertEqual(t, cfg.Origins(), []string{"http://a.test", "http://b.test"})
	testutil.AssertEqual(t, Config{}.Origins(), []string(nil))
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	testutil.AssertEqual(t, len(cfg.EngineOptions()), 1)
	cfg.Seed = 5
	testutil.AssertEqual(t, len(cfg.EngineOptions()), 2)
}
