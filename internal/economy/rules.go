package economy

import (
	"errors"
	"fmt"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/entropy"
	"github.com/zappabad/dexwars/internal/pricing"
)

// A rule whose precondition fails returns its input state untouched along
// with one of these errors.
var (
	ErrNotPlaying     = errors.New("run is not in progress")
	ErrAlreadyStarted = errors.New("run already started")
	ErrInvalidDays    = errors.New("unsupported run length")
	ErrNoPrice        = errors.New("no price for asset")
	ErrNothingToBuy   = errors.New("cannot afford a single unit")
	ErrNothingHeld    = errors.New("nothing held to sell")
	ErrNoDebt         = errors.New("no debt to repay")
	ErrNoCash         = errors.New("no cash to repay with")
	ErrSameVenue      = errors.New("already at this venue")
	ErrUnknownVenue   = errors.New("unknown venue")
)

// Rules binds the static catalog with the random sources of a run.
type Rules struct {
	Catalog *catalog.Catalog
	Prices  *pricing.Generator
	Events  entropy.Source
}

// NewRules creates Rules that draw prices and events from the same source.
func NewRules(cat *catalog.Catalog, src entropy.Source) Rules {
	return Rules{
		Catalog: cat,
		Prices:  pricing.NewGenerator(src, cat.Balance.PriceFloor),
		Events:  src,
	}
}

// Reset returns the process-start state.
func (r Rules) Reset() State {
	return NewState(r.Catalog)
}

// StartRun begins a run of the given number of days at the first venue.
func (r Rules) StartRun(s State, days int) (State, error) {
	if s.Status != StatusStart {
		return s, ErrAlreadyStarted
	}
	if !r.Catalog.Balance.AllowsDays(days) {
		return s, fmt.Errorf("%w: %d days", ErrInvalidDays, days)
	}

	venue := r.Catalog.StartVenue()
	prices := r.Prices.Generate(r.Catalog.Assets, venue)

	next := NewState(r.Catalog)
	next.Status = StatusPlaying
	next.Player.MaxDays = days
	next.Player.History = []string{fmt.Sprintf("Day 1: Connection established at %s.", venue.Name)}
	next.Market = Market{
		Prices:     prices,
		PrevPrices: prices.Clone(),
		News:       openNews,
	}
	return next, nil
}

// Buy spends as much cash as possible on the asset at the current venue.
func (r Rules) Buy(s State, id catalog.AssetID) (State, error) {
	if s.Status != StatusPlaying {
		return s, ErrNotPlaying
	}
	price, ok := s.Market.Prices[id]
	if !ok || price <= 0 {
		return s, ErrNoPrice
	}

	venue, _ := r.Catalog.Venue(s.Player.VenueID)
	unit := venue.BuyPrice(price)

	amount := affordable(s.Player.Cash, unit)
	if free, limited := s.Headroom(); limited && amount > free {
		amount = free
	}
	if amount <= 0 {
		return s, ErrNothingToBuy
	}

	next := s.Clone()
	next.Player.Inventory[id] += amount
	next.Player.Cash -= float64(amount) * unit
	if next.Player.Cash < 0 {
		next.Player.Cash = 0
	}
	r.record(&next, fmt.Sprintf("Bought %s %s", FormatUnits(amount), r.symbol(id)))
	return next, nil
}

// Sell liquidates the whole position in the asset at the current venue.
func (r Rules) Sell(s State, id catalog.AssetID) (State, error) {
	if s.Status != StatusPlaying {
		return s, ErrNotPlaying
	}
	amount := s.Player.Inventory[id]
	if amount <= 0 {
		return s, ErrNothingHeld
	}
	price, ok := s.Market.Prices[id]
	if !ok || price <= 0 {
		return s, ErrNoPrice
	}

	venue, _ := r.Catalog.Venue(s.Player.VenueID)
	unit := venue.SellPrice(price)

	next := s.Clone()
	next.Player.Cash += float64(amount) * unit
	delete(next.Player.Inventory, id)
	r.record(&next, fmt.Sprintf("Sold %s %s", FormatUnits(amount), r.symbol(id)))
	return next, nil
}

// RepayDebt pays the whale as much as cash allows.
func (r Rules) RepayDebt(s State) (State, error) {
	if s.Status != StatusPlaying {
		return s, ErrNotPlaying
	}
	if s.Player.Debt <= 0 {
		return s, ErrNoDebt
	}
	if s.Player.Cash <= 0 {
		return s, ErrNoCash
	}

	payment := min(s.Player.Cash, s.Player.Debt)

	next := s.Clone()
	next.Player.Cash = max(0, next.Player.Cash-payment)
	next.Player.Debt = max(0, next.Player.Debt-payment)
	r.record(&next, "Paid Whale "+FormatMoney(payment))
	return next, nil
}

// record prepends a history entry and keeps the newest HistoryLimit entries.
func (r Rules) record(s *State, msg string) {
	s.Player.History = pushHistory(s.Player.History, msg, r.Catalog.Balance.HistoryLimit)
}

func (r Rules) symbol(id catalog.AssetID) string {
	if a, ok := r.Catalog.Asset(id); ok {
		return a.Symbol()
	}
	return catalog.Asset{ID: id}.Symbol()
}

func pushHistory(history []string, msg string, limit int) []string {
	out := make([]string, 0, limit)
	out = append(out, msg)
	for _, h := range history {
		if len(out) >= limit {
			break
		}
		out = append(out, h)
	}
	return out
}
