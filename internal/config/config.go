// Package config holds server settings. Values come from Default and are
// overridden by command line flags in cmd/server.
package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/search"
)

type Config struct {
	// Addr is the listen address, e.g. ":3000".
	Addr string
	// AllowedOrigins is a comma separated CORS and websocket origin list.
	AllowedOrigins string

	// AIThinkTimeout bounds one engine search before it falls back to Easy.
	AIThinkTimeout time.Duration
	// SearchWorkers is the number of goroutines scoring root moves.
	SearchWorkers int
	// Seed fixes the engine's jitter; 0 seeds from the runtime.
	Seed              int64
	DefaultDifficulty search.Difficulty

	// ClockInterval is how often running clocks are checked for expiry.
	ClockInterval time.Duration

	WSReadBufferSize  int
	WSWriteBufferSize int
}

func Default() Config {
	return Config{
		Addr:              ":3000",
		AllowedOrigins:    "http://localhost:5173",
		AIThinkTimeout:    10 * time.Second,
		SearchWorkers:     runtime.NumCPU(),
		DefaultDifficulty: search.Medium,
		ClockInterval:     time.Second,
		WSReadBufferSize:  1024,
		WSWriteBufferSize: 1024,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.Wrap(errors.ErrInvalidConfig, "addr is empty")
	case c.AIThinkTimeout <= 0:
		return errors.Wrapf(errors.ErrInvalidConfig, "ai timeout %v must be positive", c.AIThinkTimeout)
	case c.SearchWorkers < 1:
		return errors.Wrapf(errors.ErrInvalidConfig, "search workers %d must be at least 1", c.SearchWorkers)
	case c.DefaultDifficulty < search.Easy || c.DefaultDifficulty > search.Hard:
		return errors.Wrapf(errors.ErrInvalidConfig, "difficulty %d out of range 1-3", c.DefaultDifficulty)
	case c.ClockInterval <= 0:
		return errors.Wrapf(errors.ErrInvalidConfig, "clock interval %v must be positive", c.ClockInterval)
	case c.WSReadBufferSize < 1 || c.WSWriteBufferSize < 1:
		return errors.Wrap(errors.ErrInvalidConfig, "websocket buffer sizes must be positive")
	}
	origins := c.Origins()
	if len(origins) == 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "no allowed origins")
	}
	// CORS credentials cannot be combined with a wildcard origin.
	for _, o := range origins {
		if o == "*" {
			return errors.Wrap(errors.ErrInvalidConfig, "wildcard origin not allowed with credentials")
		}
	}
	return nil
}

// Origins splits AllowedOrigins into its entries.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// EngineOptions turns the search settings into engine options.
func (c Config) EngineOptions() []search.Option {
	opts := []search.Option{search.WithWorkers(c.SearchWorkers)}
	if c.Seed != 0 {
		opts = append(opts, search.WithSeed(c.Seed))
	}
	return opts
}
