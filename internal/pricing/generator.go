// Package pricing draws a fresh price for every asset each time the player
// arrives at a venue.
package pricing

import (
	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/entropy"
)

// DefaultFloor keeps prices strictly positive.
const DefaultFloor = 1e-11

// Prices maps asset ids to a unit price.
type Prices map[catalog.AssetID]float64

// Clone returns an independent copy.
func (p Prices) Clone() Prices {
	if p == nil {
		return Prices{}
	}
	out := make(Prices, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Generator produces price sets. It holds no state besides its random source.
type Generator struct {
	src   entropy.Source
	floor float64
}

// NewGenerator creates a Generator. A non-positive floor uses DefaultFloor.
func NewGenerator(src entropy.Source, floor float64) *Generator {
	if floor <= 0 {
		floor = DefaultFloor
	}
	return &Generator{src: src, floor: floor}
}

// Generate draws one price per asset, in catalog order, for the given venue.
//
// price = base * (1 + f*vol) where f is uniform in [-1, 1) and vol is the
// asset volatility after the venue's amplification, if any.
func (g *Generator) Generate(assets []catalog.Asset, venue catalog.Venue) Prices {
	out := make(Prices, len(assets))
	for _, a := range assets {
		f := (g.src.Float64() - 0.5) * 2
		vol := venue.EffectiveVolatility(a.Volatility)
		price := a.BasePrice * (1 + f*vol)
		if price < g.floor {
			price = g.floor
		}
		out[a.ID] = price
	}
	return out
}
