// Package narrative produces the flavor text shown for each trading day.
// Generators may fail; the Narrator in front of them never does.
package narrative

//go:generate go tool mockgen -destination=./mocks/generator_mock.go -package=mocks . Generator

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// FallbackError replaces the narrative when the generator fails.
	FallbackError = "The RPC is down. Markets are moving in silence."
	// FallbackEmpty replaces an empty narrative.
	FallbackEmpty = "The blocks are stalling. No news is good news."
)

// Generator writes the news for a day at a venue.
type Generator interface {
	Generate(ctx context.Context, day int, venue string) (string, error)
}

// Config holds configuration for the Narrator.
type Config struct {
	// Timeout bounds a single Generate call. Zero disables the bound.
	Timeout time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 20 * time.Second,
	}
}

// Narrator wraps a Generator and always yields usable text.
type Narrator struct {
	cfg Config
	gen Generator
	log zerolog.Logger
}

// NewNarrator creates a Narrator. A nil generator always yields FallbackError.
func NewNarrator(gen Generator, cfg Config, log zerolog.Logger) *Narrator {
	if cfg.Timeout < 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Narrator{
		cfg: cfg,
		gen: gen,
		log: log.With().Str("component", "narrator").Logger(),
	}
}

// Narrate returns the day's news, substituting a fallback on any failure.
func (n *Narrator) Narrate(ctx context.Context, day int, venue string) (text string) {
	if n == nil || n.gen == nil {
		return FallbackError
	}

	if n.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.cfg.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			n.log.Error().Interface("panic", r).Int("day", day).Str("venue", venue).Msg("narrative generator panicked")
			text = FallbackError
		}
	}()

	start := time.Now()
	out, err := n.gen.Generate(ctx, day, venue)
	if err != nil {
		n.log.Warn().Err(err).Int("day", day).Str("venue", venue).Msg("narrative generation failed, using fallback")
		return FallbackError
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return FallbackEmpty
	}

	n.log.Debug().Int("day", day).Str("venue", venue).Dur("took", time.Since(start)).Msg("narrative generated")
	return out
}
