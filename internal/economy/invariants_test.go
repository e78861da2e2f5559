package economy

import (
	"errors"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/entropy"
)

// checkInvariants fails t if s breaks any bound that every rule must keep.
func checkInvariants(t *rapid.T, cat *catalog.Catalog, s State) {
	p := s.Player
	if p.Cash < 0 {
		t.Fatalf("cash went negative: %v", p.Cash)
	}
	if p.Debt < 0 {
		t.Fatalf("debt went negative: %v", p.Debt)
	}
	if p.Health < 0 || p.Health > cat.Balance.MaxHealth {
		t.Fatalf("opsec out of range: %d", p.Health)
	}
	if p.Day < 1 || p.Day > p.MaxDays {
		t.Fatalf("day %d outside 1..%d", p.Day, p.MaxDays)
	}
	if len(p.History) == 0 || len(p.History) > cat.Balance.HistoryLimit {
		t.Fatalf("history has %d entries", len(p.History))
	}
	for id, n := range p.Inventory {
		if n <= 0 {
			t.Fatalf("inventory keeps %d units of %s", n, id)
		}
	}
	if _, ok := cat.Venue(p.VenueID); !ok {
		t.Fatalf("unknown venue %q", p.VenueID)
	}
}

func TestRulesKeepInvariants(t *testing.T) {
	cat := catalog.Default()

	rapid.Check(t, func(t *rapid.T) {
		rolls := rapid.SliceOfN(rapid.Float64Range(0, 0.999999), 1, 64).Draw(t, "rolls")
		r := NewRules(cat, entropy.NewSequence(rolls...))

		days := rapid.SampledFrom(cat.Balance.DayOptions).Draw(t, "days")
		s, err := r.StartRun(r.Reset(), days)
		if err != nil {
			t.Fatalf("start run: %v", err)
		}
		checkInvariants(t, cat, s)

		steps := rapid.IntRange(1, 150).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before := s.Clone()

			var next State
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				next, err = r.Buy(s, rapid.SampledFrom(cat.Assets).Draw(t, "buy").ID)
			case 1:
				next, err = r.Sell(s, rapid.SampledFrom(cat.Assets).Draw(t, "sell").ID)
			case 2:
				next, err = r.RepayDebt(s)
			default:
				next, _, err = r.Travel(s, rapid.SampledFrom(cat.Venues).Draw(t, "venue").ID, "news")
			}

			if !reflect.DeepEqual(before, s) {
				t.Fatalf("step %d mutated its input", i)
			}
			if err != nil {
				if !reflect.DeepEqual(before, next) {
					t.Fatalf("step %d was rejected (%v) but changed state", i, err)
				}
				if before.Status == StatusGameOver && !errors.Is(err, ErrNotPlaying) {
					t.Fatalf("game over accepted an operation: %v", err)
				}
				continue
			}
			if before.Status == StatusGameOver {
				t.Fatalf("step %d succeeded after game over", i)
			}

			s = next
			checkInvariants(t, cat, s)
		}
	})
}

func TestDebtNeverShrinksWithoutRepayment(t *testing.T) {
	cat := catalog.Default()

	rapid.Check(t, func(t *rapid.T) {
		rolls := rapid.SliceOfN(rapid.Float64Range(0, 0.999999), 1, 32).Draw(t, "rolls")
		r := NewRules(cat, entropy.NewSequence(rolls...))
		s, err := r.StartRun(r.Reset(), cat.Balance.DayOptions[0])
		if err != nil {
			t.Fatalf("start run: %v", err)
		}

		for s.Status == StatusPlaying {
			venue := cat.Venues[rapid.IntRange(0, len(cat.Venues)-1).Draw(t, "venue")].ID
			if venue == s.Player.VenueID {
				venue = cat.Venues[0].ID
				if venue == s.Player.VenueID {
					venue = cat.Venues[1].ID
				}
			}
			next, _, err := r.Travel(s, venue, "")
			if err != nil {
				t.Fatalf("travel: %v", err)
			}
			if next.Player.Debt < s.Player.Debt {
				t.Fatalf("debt fell from %v to %v on travel", s.Player.Debt, next.Player.Debt)
			}
			s = next
		}
	})
}
