package autopilot

import (
	"context"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/entropy"
	"github.com/zappabad/dexwars/internal/game"
)

// Strategy decides what to do on a trading day.
type Strategy interface {
	// Step is called once per day with the current snapshot. The returned
	// actions run in order; a trailing travel ends the day.
	Step(ctx context.Context, snap game.Snapshot, cat *catalog.Catalog) []Action
}

// pickVenue returns a venue other than the current one, chosen by src.
func pickVenue(src entropy.Source, cat *catalog.Catalog, current catalog.VenueID) catalog.VenueID {
	others := make([]catalog.VenueID, 0, len(cat.Venues))
	for _, v := range cat.Venues {
		if v.ID != current {
			others = append(others, v.ID)
		}
	}
	if len(others) == 0 {
		return current
	}
	i := int(src.Float64() * float64(len(others)))
	if i >= len(others) {
		i = len(others) - 1
	}
	return others[i]
}

// NextVenue returns the venue after current in catalog order, wrapping.
func NextVenue(cat *catalog.Catalog, current catalog.VenueID) catalog.VenueID {
	for i, v := range cat.Venues {
		if v.ID == current {
			return cat.Venues[(i+1)%len(cat.Venues)].ID
		}
	}
	return cat.StartVenue().ID
}
