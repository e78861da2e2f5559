package economy

import (
	"fmt"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/pricing"
)

// TravelPlan is everything a travel decides before the day's narrative is
// known. Planning draws all randomness; Apply only commits.
type TravelPlan struct {
	To       catalog.Venue
	Day      int
	GameOver bool

	Prices     pricing.Prices
	PrevPrices pricing.Prices
	Debt       float64
	Penalty    int
	Yield      float64
	RugPulled  bool
	RugDodged  bool
	Message    string
}

// PlanTravel rolls the outcome of moving to another venue.
//
// Draw order: one price draw per catalog asset, then one rug pull roll.
// When the move would pass the last day the plan only ends the run.
func (r Rules) PlanTravel(s State, to catalog.VenueID) (TravelPlan, error) {
	if s.Status != StatusPlaying {
		return TravelPlan{}, ErrNotPlaying
	}
	if to == s.Player.VenueID {
		return TravelPlan{}, ErrSameVenue
	}
	venue, ok := r.Catalog.Venue(to)
	if !ok {
		return TravelPlan{}, fmt.Errorf("%w: %q", ErrUnknownVenue, to)
	}

	plan := TravelPlan{To: venue, Day: s.Player.Day + 1}
	if plan.Day > s.Player.MaxDays {
		plan.GameOver = true
		return plan, nil
	}

	b := r.Catalog.Balance

	plan.PrevPrices = s.Market.Prices.Clone()
	plan.Prices = r.Prices.Generate(r.Catalog.Assets, venue)
	plan.Debt = compound(s.Player.Debt, b.InterestRate)

	msg := fmt.Sprintf("Traveled to %s.", venue.Name)

	rugRoll := r.Events.Float64() < b.RugPullChance
	switch {
	case rugRoll && !venue.Has(catalog.ModifierRugImmunity):
		plan.RugPulled = true
		plan.Penalty = b.RugPullPenalty
		msg += fmt.Sprintf(" RUG PULL! You lost %d%% OpSec.", b.RugPullPenalty)
	case rugRoll:
		plan.RugDodged = true
		msg += " [PERK] Avoided a rug pull via Safe Haven audit."
	}

	if venue.Has(catalog.ModifierCashYield) {
		plan.Yield = yieldOn(s.Player.Cash, venue.Modifier.Magnitude)
		if plan.Yield > 0 {
			msg += fmt.Sprintf(" [PERK] Staking yield: $%s.", FormatUnits(int64(plan.Yield)))
		}
	}

	plan.Message = msg
	return plan, nil
}

// Apply commits the plan on top of s with the day's narrative.
// Health and cash are applied as deltas against s so that anything committed
// while the narrative was pending is kept.
func (p TravelPlan) Apply(s State, news string, historyLimit int) State {
	next := s.Clone()
	if p.GameOver {
		next.Status = StatusGameOver
		return next
	}

	next.Player.Day = p.Day
	next.Player.Debt = max(0, p.Debt)
	next.Player.VenueID = p.To.ID
	next.Player.Health = max(0, next.Player.Health-p.Penalty)
	next.Player.Cash = max(0, next.Player.Cash+p.Yield)
	next.Player.History = pushHistory(next.Player.History, p.Message, historyLimit)
	next.Market = Market{
		Prices:     p.Prices.Clone(),
		PrevPrices: p.PrevPrices.Clone(),
		News:       news,
	}
	return next
}

// Travel plans and applies a move in one step with the given narrative.
// Useful when no narrative needs to be awaited.
func (r Rules) Travel(s State, to catalog.VenueID, news string) (State, TravelPlan, error) {
	plan, err := r.PlanTravel(s, to)
	if err != nil {
		return s, plan, err
	}
	return plan.Apply(s, news, r.Catalog.Balance.HistoryLimit), plan, nil
}
