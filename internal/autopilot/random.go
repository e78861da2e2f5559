package autopilot

import (
	"context"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/entropy"
	"github.com/zappabad/dexwars/internal/game"
)

// RandomStrategy sells one random holding, buys one random asset, then
// moves on. It is a baseline for comparing strategies.
type RandomStrategy struct {
	src entropy.Source
}

// NewRandomStrategy creates a RandomStrategy.
func NewRandomStrategy(src entropy.Source) *RandomStrategy {
	return &RandomStrategy{src: src}
}

// Step implements Strategy.
func (s *RandomStrategy) Step(ctx context.Context, snap game.Snapshot, cat *catalog.Catalog) []Action {
	if len(cat.Assets) == 0 {
		return nil
	}
	var actions []Action

	sell := cat.Assets[s.index(len(cat.Assets))].ID
	if snap.Player.Inventory[sell] > 0 {
		actions = append(actions, Sell(sell))
	}
	if s.src.Float64() < 0.25 {
		actions = append(actions, Repay())
	}
	actions = append(actions, Buy(cat.Assets[s.index(len(cat.Assets))].ID))

	return append(actions, Travel(pickVenue(s.src, cat, snap.Player.VenueID)))
}

func (s *RandomStrategy) index(n int) int {
	i := int(s.src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
