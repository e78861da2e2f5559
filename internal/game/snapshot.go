package game

import "github.com/zappabad/dexwars/internal/economy"

// Snapshot is a read-only copy of the game handed to renderers.
// It embeds the run state, so NetWorth, PriceChange and friends are available.
type Snapshot struct {
	economy.State
	RunID     string
	Traveling bool
}

// CanBuy reports whether at least one unit of price fits the cash on hand.
func (s Snapshot) CanBuy(price float64) bool {
	return s.Status == economy.StatusPlaying && !s.Traveling && price > 0 && s.Player.Cash >= price
}

// CanRepay reports whether a repayment would do anything.
func (s Snapshot) CanRepay() bool {
	return s.Status == economy.StatusPlaying && !s.Traveling && s.Player.Cash > 0 && s.Player.Debt > 0
}
