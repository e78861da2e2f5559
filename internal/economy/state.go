// Package economy is the rules engine of a run. State is a value; every rule
// takes a State and returns a new one, cloning maps and slices before writing
// so old snapshots stay valid.
package economy

import (
	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/pricing"
)

// Status is the run phase.
type Status int

const (
	StatusStart Status = iota
	StatusPlaying
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusStart:
		return "START"
	case StatusPlaying:
		return "PLAYING"
	case StatusGameOver:
		return "GAMEOVER"
	default:
		return "UNKNOWN"
	}
}

const (
	resetHistory = "Terminal initialized..."
	welcomeNews  = "Welcome to the trenches. Watch your OpSec, pay your debt, and aim for the moon."
	openNews     = "The markets are open. Volatility is high. Good luck, Mogul."
)

// Inventory maps asset ids to held units. Absent means zero held.
type Inventory map[catalog.AssetID]int64

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// Units returns the total number of units held across all assets.
func (inv Inventory) Units() int64 {
	var total int64
	for _, n := range inv {
		total += n
	}
	return total
}

// Player is the wallet and progress of the run.
type Player struct {
	Cash           float64         `json:"cash"`
	Debt           float64         `json:"debt"`
	WalletCapacity int64           `json:"wallet_capacity"` // 0 means unlimited
	Inventory      Inventory       `json:"inventory"`
	VenueID        catalog.VenueID `json:"venue_id"`
	Day            int             `json:"day"`
	MaxDays        int             `json:"max_days"`
	Health         int             `json:"health"` // OpSec
	History        []string        `json:"history"` // newest first
}

// Market is the price board at the current venue.
type Market struct {
	Prices     pricing.Prices `json:"prices"`
	PrevPrices pricing.Prices `json:"prev_prices"`
	News       string         `json:"news"`
}

// State is the complete state of one run.
type State struct {
	Status Status `json:"status"`
	Player Player `json:"player"`
	Market Market `json:"market"`
}

// NewState returns the process-start defaults: status START, no prices.
func NewState(cat *catalog.Catalog) State {
	b := cat.Balance
	return State{
		Status: StatusStart,
		Player: Player{
			Cash:           b.StartingCash,
			Debt:           b.StartingDebt,
			WalletCapacity: b.WalletCapacity,
			Inventory:      Inventory{},
			VenueID:        cat.StartVenue().ID,
			Day:            1,
			MaxDays:        b.DayOptions[0],
			Health:         b.MaxHealth,
			History:        []string{resetHistory},
		},
		Market: Market{
			Prices:     pricing.Prices{},
			PrevPrices: pricing.Prices{},
			News:       welcomeNews,
		},
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Player.Inventory = s.Player.Inventory.Clone()
	out.Player.History = append([]string(nil), s.Player.History...)
	out.Market.Prices = s.Market.Prices.Clone()
	out.Market.PrevPrices = s.Market.PrevPrices.Clone()
	return out
}

// NetWorth is cash plus marked-to-market holdings minus debt.
// Assets without a current price count as zero.
func (s State) NetWorth() float64 {
	total := s.Player.Cash
	for id, units := range s.Player.Inventory {
		total += float64(units) * s.Market.Prices[id]
	}
	return total - s.Player.Debt
}

// HoldingsValue is the marked-to-market value of the inventory.
func (s State) HoldingsValue() float64 {
	var total float64
	for id, units := range s.Player.Inventory {
		total += float64(units) * s.Market.Prices[id]
	}
	return total
}

// PriceChange returns the percentage move of an asset since the previous day.
// There is no change on day 1 or when either price is missing.
func (s State) PriceChange(id catalog.AssetID) (float64, bool) {
	if s.Player.Day <= 1 {
		return 0, false
	}
	cur, ok := s.Market.Prices[id]
	if !ok || cur <= 0 {
		return 0, false
	}
	prev, ok := s.Market.PrevPrices[id]
	if !ok || prev <= 0 {
		return 0, false
	}
	return (cur - prev) / prev * 100, true
}

// Headroom returns how many more units fit in the wallet.
// The second result is false when capacity is unlimited.
func (s State) Headroom() (int64, bool) {
	if s.Player.WalletCapacity <= 0 {
		return 0, false
	}
	free := s.Player.WalletCapacity - s.Player.Inventory.Units()
	if free < 0 {
		free = 0
	}
	return free, true
}

// DaysLeft is the number of travels remaining before the run ends.
func (s State) DaysLeft() int {
	if left := s.Player.MaxDays - s.Player.Day; left > 0 {
		return left
	}
	return 0
}

// WalletUsage returns held units and the wallet capacity (0 when unlimited).
func (s State) WalletUsage() (used, capacity int64) {
	return s.Player.Inventory.Units(), s.Player.WalletCapacity
}
