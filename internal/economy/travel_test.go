package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/entropy"
)

func TestTravelAdvancesDay(t *testing.T) {
	r, s := startedRun(t)
	s.Market.Prices["eth"] = 4000

	got, plan, err := r.Travel(s, "pancakeswap", "news of the day")
	require.NoError(t, err)

	assert.False(t, plan.GameOver)
	assert.Equal(t, StatusPlaying, got.Status)
	assert.Equal(t, 2, got.Player.Day)
	assert.Equal(t, 5750.0, got.Player.Debt)
	assert.Equal(t, catalog.VenueID("pancakeswap"), got.Player.VenueID)
	assert.Equal(t, 100, got.Player.Health)
	assert.Equal(t, "news of the day", got.Market.News)
	assert.Equal(t, "Traveled to PancakeSwap.", got.Player.History[0])
	assert.Len(t, got.Player.History, 2)

	assert.Equal(t, 4000.0, got.Market.PrevPrices["eth"], "previous prices are snapshotted")
	assert.Equal(t, 3500.0, got.Market.Prices["eth"])
	for _, a := range r.Catalog.Assets {
		assert.Contains(t, got.Market.Prices, a.ID)
	}
}

func TestTravelNoops(t *testing.T) {
	r, s := startedRun(t)

	got, _, err := r.Travel(s, "uniswap", "")
	assert.ErrorIs(t, err, ErrSameVenue)
	assert.Equal(t, s, got)

	got, _, err = r.Travel(s, "sushiswap", "")
	assert.ErrorIs(t, err, ErrUnknownVenue)
	assert.Equal(t, s, got)
}

func TestTravelPastLastDayEndsRun(t *testing.T) {
	r, s := startedRun(t)
	s.Player.Day = 30
	seq := entropy.NewSequence(0.01)
	r.Events = seq

	got, plan, err := r.Travel(s, "pancakeswap", "ignored")
	require.NoError(t, err)

	assert.True(t, plan.GameOver)
	assert.Equal(t, StatusGameOver, got.Status)
	assert.Equal(t, 0, seq.Draws(), "no rolls for the final step")

	want := s.Clone()
	want.Status = StatusGameOver
	assert.Equal(t, want, got, "nothing but status changes")

	_, err = r.Buy(got, "eth")
	assert.ErrorIs(t, err, ErrNotPlaying)
	_, _, err = r.Travel(got, "pulsex", "")
	assert.ErrorIs(t, err, ErrNotPlaying)
}

func TestTravelRugPull(t *testing.T) {
	r, s := startedRun(t)
	r.Events = entropy.Constant(0.01)

	got, plan, err := r.Travel(s, "pancakeswap", "")
	require.NoError(t, err)

	assert.True(t, plan.RugPulled)
	assert.Equal(t, 80, got.Player.Health)
	assert.Equal(t, "Traveled to PancakeSwap. RUG PULL! You lost 20% OpSec.", got.Player.History[0])
}

func TestTravelRugPullFloorsHealth(t *testing.T) {
	r, s := startedRun(t)
	r.Events = entropy.Constant(0.01)
	s.Player.Health = 5

	got, _, err := r.Travel(s, "raydium", "")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Player.Health)
}

func TestTravelImmuneVenueDodgesRugPull(t *testing.T) {
	r, s := startedRun(t)
	r.Events = entropy.Constant(0.01)

	got, plan, err := r.Travel(s, "pulsex", "")
	require.NoError(t, err)

	assert.False(t, plan.RugPulled)
	assert.True(t, plan.RugDodged)
	assert.Equal(t, 100, got.Player.Health)
	assert.Equal(t, "Traveled to PulseX. [PERK] Avoided a rug pull via Safe Haven audit.", got.Player.History[0])
}

func TestTravelRollAboveChanceIsQuiet(t *testing.T) {
	r, s := startedRun(t)
	r.Events = entropy.Constant(0.08)

	got, plan, err := r.Travel(s, "raydium", "")
	require.NoError(t, err)
	assert.False(t, plan.RugPulled)
	assert.Equal(t, 100, got.Player.Health)
}

func TestTravelCashYield(t *testing.T) {
	r, s := startedRun(t)
	s.Player.Cash = 5049.99

	got, plan, err := r.Travel(s, "internetmoney", "")
	require.NoError(t, err)

	assert.Equal(t, 100.0, plan.Yield, "2% floored to whole dollars")
	assert.InDelta(t, 5149.99, got.Player.Cash, 1e-9)
	assert.Equal(t, "Traveled to Internet Money. [PERK] Staking yield: $100.", got.Player.History[0])

	s.Player.Cash = 10
	broke, plan, err := r.Travel(s, "internetmoney", "")
	require.NoError(t, err)
	assert.Zero(t, plan.Yield)
	assert.Equal(t, "Traveled to Internet Money.", broke.Player.History[0])
}

func TestTravelDrawOrder(t *testing.T) {
	r, s := startedRun(t)
	seq := entropy.NewSequence()
	r = NewRules(r.Catalog, seq)

	_, _, err := r.Travel(s, "raydium", "")
	require.NoError(t, err)
	assert.Equal(t, len(r.Catalog.Assets)+1, seq.Draws(), "one draw per asset plus the rug roll")
}

func TestDebtCompoundsAcrossTravels(t *testing.T) {
	r, s := startedRun(t)
	want := []float64{5750, 6613, 7605, 8746, 10058}

	venues := []catalog.VenueID{"raydium", "pancakeswap"}
	var err error
	for i, d := range want {
		s, _, err = r.Travel(s, venues[i%2], "")
		require.NoError(t, err)
		assert.Equal(t, d, s.Player.Debt, "day %d", s.Player.Day)
	}
}

func TestApplyKeepsConcurrentChanges(t *testing.T) {
	r, s := startedRun(t)
	r.Events = entropy.Constant(0.01)

	plan, err := r.PlanTravel(s, "internetmoney")
	require.NoError(t, err)

	// A sale lands while the narrative is pending.
	s.Player.Cash += 1000
	s.Player.History = pushHistory(s.Player.History, "Sold 1 ETH", 5)

	got := plan.Apply(s, "late news", 5)
	assert.InDelta(t, 6000+100, got.Player.Cash, 1e-9)
	assert.Equal(t, 80, got.Player.Health)
	assert.Equal(t, "Sold 1 ETH", got.Player.History[1])
}

func TestTravelToMaxDayThenOverflow(t *testing.T) {
	r := NewRules(catalog.Default(), entropy.NewRand(3))
	s, err := r.StartRun(r.Reset(), 30)
	require.NoError(t, err)

	venues := []catalog.VenueID{"raydium", "pancakeswap"}
	for i := 0; s.Player.Day < s.Player.MaxDays; i++ {
		s, _, err = r.Travel(s, venues[i%2], "")
		require.NoError(t, err)
		require.Equal(t, StatusPlaying, s.Status)
		require.LessOrEqual(t, len(s.Player.History), 5)
		require.GreaterOrEqual(t, s.Player.Health, 0)
	}
	assert.Equal(t, 30, s.Player.Day)

	next := venues[0]
	if next == s.Player.VenueID {
		next = venues[1]
	}
	s, _, err = r.Travel(s, next, "")
	require.NoError(t, err)
	assert.Equal(t, StatusGameOver, s.Status)
	assert.Equal(t, 30, s.Player.Day)
}
