package autopilot

import (
	"context"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/entropy"
	"github.com/zappabad/dexwars/internal/game"
)

// DipBuyer buys whatever trades furthest below its base price, sells
// anything above it and pays the whale off once cash covers the debt with
// Reserve left over to trade with.
type DipBuyer struct {
	// BuyBelow is the discount to base price required before buying.
	BuyBelow float64
	// SellAbove is the premium over base price at which a position is sold.
	SellAbove float64
	// Reserve is the cash kept back from repayment until the last day.
	Reserve float64

	src entropy.Source
}

// NewDipBuyer creates a DipBuyer with its default thresholds.
func NewDipBuyer(src entropy.Source) *DipBuyer {
	return &DipBuyer{BuyBelow: 0.2, SellAbove: 0.1, Reserve: 1000, src: src}
}

// Step implements Strategy.
func (s *DipBuyer) Step(ctx context.Context, snap game.Snapshot, cat *catalog.Catalog) []Action {
	var actions []Action

	venue, ok := cat.Venue(snap.Player.VenueID)
	if !ok {
		return nil
	}

	cash := snap.Player.Cash
	for _, a := range cat.Assets {
		held := snap.Player.Inventory[a.ID]
		price, priced := snap.Market.Prices[a.ID]
		if held == 0 || !priced {
			continue
		}
		if price >= a.BasePrice*(1+s.SellAbove) || snap.DaysLeft() == 0 {
			actions = append(actions, Sell(a.ID))
			cash += float64(held) * venue.SellPrice(price)
		}
	}

	debt := snap.Player.Debt
	lastDay := snap.DaysLeft() == 0
	if debt > 0 && cash > 0 && (cash >= debt+s.Reserve || lastDay) {
		actions = append(actions, Repay())
		cash = max(cash-debt, 0)
	}

	if snap.DaysLeft() > 0 {
		var best catalog.AssetID
		bestRatio := 1 - s.BuyBelow
		for _, a := range cat.Assets {
			price, priced := snap.Market.Prices[a.ID]
			if !priced || venue.BuyPrice(price) > cash {
				continue
			}
			if r := price / a.BasePrice; r < bestRatio {
				best, bestRatio = a.ID, r
			}
		}
		if best != "" {
			actions = append(actions, Buy(best))
		}
	}

	return append(actions, Travel(pickVenue(s.src, cat, snap.Player.VenueID)))
}
