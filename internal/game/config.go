package game

import (
	"github.com/rs/zerolog"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/entropy"
	"github.com/zappabad/dexwars/internal/narrative"
	newsservice "github.com/zappabad/dexwars/internal/news/service"
)

// Config holds configuration for the game.
type Config struct {
	// Catalog is the asset and venue data plus balance constants.
	Catalog *catalog.Catalog
	// Random drives prices and travel events. Nil means a source seeded with Seed.
	Random entropy.Source
	// Seed seeds the default random source. Zero uses the current time.
	Seed int64
	// NarratorConfig is the configuration for the narrator.
	NarratorConfig narrative.Config
	// NewsConfig is the configuration for the news service.
	NewsConfig newsservice.Config
	// Logger receives engine logs.
	Logger zerolog.Logger
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Catalog:        catalog.Default(),
		NarratorConfig: narrative.DefaultConfig(),
		NewsConfig:     newsservice.DefaultConfig(),
		Logger:         zerolog.Nop(),
	}
}
