package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/economy"
	"github.com/zappabad/dexwars/internal/entropy"
	"github.com/zappabad/dexwars/internal/narrative"
	"github.com/zappabad/dexwars/internal/news"
	newsservice "github.com/zappabad/dexwars/internal/news/service"
)

var (
	// ErrTravelInFlight is returned when a travel is requested while another
	// is still waiting for its narrative.
	ErrTravelInFlight = errors.New("travel already in progress")
	// ErrStaleTravel is returned when the run was reset or restarted while a
	// travel was waiting for its narrative. The travel is discarded.
	ErrStaleTravel = errors.New("run changed during travel")
)

// Game owns the state of one player's run and serialises every operation on it.
type Game struct {
	News *newsservice.NewsService

	cfg      Config
	rules    economy.Rules
	narrator *narrative.Narrator
	log      zerolog.Logger

	traveling atomic.Bool

	mu    sync.Mutex
	state economy.State
	runID string
	epoch uint64
}

// NewGame creates a Game in the START state. gen writes the daily news; a
// nil gen leaves every day on the fallback headline.
func NewGame(cfg Config, gen narrative.Generator) *Game {
	def := DefaultConfig()
	if cfg.Catalog == nil {
		cfg.Catalog = def.Catalog
	}
	if cfg.Random == nil {
		cfg.Random = entropy.NewRand(cfg.Seed)
	}

	g := &Game{
		cfg:   cfg,
		rules: economy.NewRules(cfg.Catalog, cfg.Random),
		log:   cfg.Logger.With().Str("component", "game").Logger(),
	}
	g.narrator = narrative.NewNarrator(gen, cfg.NarratorConfig, cfg.Logger)
	g.News = newsservice.NewNewsService(cfg.NewsConfig, cfg.Logger)
	g.state = g.rules.Reset()

	return g
}

// Catalog returns the static game data.
func (g *Game) Catalog() *catalog.Catalog {
	return g.cfg.Catalog
}

// Snapshot returns a deep copy of the current state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	return Snapshot{
		State:     g.state.Clone(),
		RunID:     g.runID,
		Traveling: g.traveling.Load(),
	}
}

// Traveling reports whether a travel is waiting for its narrative.
func (g *Game) Traveling() bool {
	return g.traveling.Load()
}

// NetWorth returns the current net worth.
func (g *Game) NetWorth() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.NetWorth()
}

func (g *Game) runLog() zerolog.Logger {
	return g.log.With().Str("run_id", g.runID).Logger()
}

// StartRun begins a run of the given number of days. Only valid from START.
func (g *Game) StartRun(days int) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := g.rules.StartRun(g.state, days)
	if err != nil {
		return g.snapshotLocked(), err
	}

	g.state = next
	g.runID = uuid.NewString()
	g.epoch++

	venue := g.venueName(next.Player.VenueID)
	g.News.Reset(news.NewsItem{
		RunID:    g.runID,
		Day:      next.Player.Day,
		Venue:    venue,
		Kind:     news.KindNarrative,
		Headline: next.Market.News,
	})

	l := g.runLog()
	l.Info().Int("days", days).Str("venue", venue).Msg("run started")
	return g.snapshotLocked(), nil
}

// Travel moves the player to another venue, advancing one day.
//
// The narrative is awaited without holding the state lock, so buy, sell and
// repay may still commit meanwhile; the travel applies on top of them. A
// second Travel while one is pending returns ErrTravelInFlight.
func (g *Game) Travel(ctx context.Context, to catalog.VenueID) (Snapshot, error) {
	if !g.traveling.CompareAndSwap(false, true) {
		return g.Snapshot(), ErrTravelInFlight
	}
	err := g.travel(ctx, to)
	return g.Snapshot(), err
}

func (g *Game) travel(ctx context.Context, to catalog.VenueID) error {
	defer g.traveling.Store(false)

	g.mu.Lock()
	plan, err := g.rules.PlanTravel(g.state, to)
	epoch := g.epoch
	g.mu.Unlock()
	if err != nil {
		return err
	}

	var text string
	if !plan.GameOver {
		text = g.narrator.Narrate(ctx, plan.Day, plan.To.Name)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	l := g.runLog()
	if g.epoch != epoch {
		l.Warn().Str("venue", string(to)).Msg("discarding travel for a replaced run")
		return ErrStaleTravel
	}

	g.state = plan.Apply(g.state, text, g.cfg.Catalog.Balance.HistoryLimit)

	if plan.GameOver {
		nw := g.state.NetWorth()
		g.News.Publish(news.NewsItem{
			RunID:    g.runID,
			Day:      g.state.Player.Day,
			Kind:     news.KindEvent,
			Headline: "Run over. Final net worth " + economy.FormatMoney(nw) + ".",
			Severity: 1,
		})
		l.Info().Float64("net_worth", nw).Int("day", g.state.Player.Day).Msg("run over")
		return nil
	}

	g.News.Publish(news.NewsItem{
		RunID:    g.runID,
		Day:      plan.Day,
		Venue:    plan.To.Name,
		Kind:     news.KindNarrative,
		Headline: text,
	})
	if plan.RugPulled || plan.RugDodged || plan.Yield > 0 {
		severity := 0
		if plan.RugPulled {
			severity = 2
		}
		g.News.Publish(news.NewsItem{
			RunID:    g.runID,
			Day:      plan.Day,
			Venue:    plan.To.Name,
			Kind:     news.KindEvent,
			Headline: plan.Message,
			Severity: severity,
		})
	}

	l.Info().
		Int("day", plan.Day).
		Str("venue", plan.To.Name).
		Float64("debt", g.state.Player.Debt).
		Bool("rug_pulled", plan.RugPulled).
		Float64("yield", plan.Yield).
		Msg("traveled")
	return nil
}

// Buy spends as much cash as possible on an asset.
func (g *Game) Buy(id catalog.AssetID) (Snapshot, error) {
	return g.apply("buy", id, func(s economy.State) (economy.State, error) {
		return g.rules.Buy(s, id)
	})
}

// Sell liquidates the whole position in an asset.
func (g *Game) Sell(id catalog.AssetID) (Snapshot, error) {
	return g.apply("sell", id, func(s economy.State) (economy.State, error) {
		return g.rules.Sell(s, id)
	})
}

// RepayDebt pays the whale as much as cash allows.
func (g *Game) RepayDebt() (Snapshot, error) {
	return g.apply("repay", "", g.rules.RepayDebt)
}

func (g *Game) apply(op string, id catalog.AssetID, rule func(economy.State) (economy.State, error)) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := rule(g.state)
	l := g.runLog()
	if err != nil {
		l.Debug().Err(err).Str("op", op).Str("asset", string(id)).Msg("ignored")
		return g.snapshotLocked(), err
	}
	g.state = next

	l.Debug().
		Str("op", op).
		Str("asset", string(id)).
		Float64("cash", next.Player.Cash).
		Float64("debt", next.Player.Debt).
		Msg(next.Player.History[0])
	return g.snapshotLocked(), nil
}

// Reset abandons the current run and returns to START. Safe from any status.
// A travel still waiting for its narrative is discarded.
func (g *Game) Reset() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Status != economy.StatusStart {
		l := g.runLog()
		l.Info().Str("status", g.state.Status.String()).Msg("run reset")
	}
	g.state = g.rules.Reset()
	g.runID = ""
	g.epoch++
	g.News.Reset(news.NewsItem{})

	return g.snapshotLocked()
}

// Close shuts down the game's services.
func (g *Game) Close() {
	g.News.Close()
}

func (g *Game) venueName(id catalog.VenueID) string {
	if v, ok := g.cfg.Catalog.Venue(id); ok {
		return v.Name
	}
	return string(id)
}
