package runner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/zappabad/dexwars/internal/autopilot"
	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/economy"
	"github.com/zappabad/dexwars/internal/game"
)

var ErrAlreadyRan = errors.New("runner already ran")

// Engine is the part of game.Game the runner drives.
type Engine interface {
	Catalog() *catalog.Catalog
	StartRun(days int) (game.Snapshot, error)
	Buy(id catalog.AssetID) (game.Snapshot, error)
	Sell(id catalog.AssetID) (game.Snapshot, error)
	RepayDebt() (game.Snapshot, error)
	Travel(ctx context.Context, to catalog.VenueID) (game.Snapshot, error)
}

var _ Engine = (*game.Game)(nil)

// Result summarises a finished run.
type Result struct {
	RunID    string
	Status   economy.Status
	Day      int
	MaxDays  int
	NetWorth float64
	Cash     float64
	Debt     float64
	Health   int
	Steps    int
	Actions  int
	Rejected int
}

// Runner plays one run of a strategy against an engine.
type Runner struct {
	cfg      Config
	engine   Engine
	strategy autopilot.Strategy
	log      zerolog.Logger

	events        chan autopilot.Event
	droppedEvents atomic.Int64
	ran           atomic.Bool

	result Result
}

// NewRunner creates a new Runner.
func NewRunner(cfg Config, engine Engine, strat autopilot.Strategy, log zerolog.Logger) *Runner {
	def := DefaultConfig()
	if cfg.Days <= 0 {
		cfg.Days = def.Days
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = def.EventBuffer
	}

	return &Runner{
		cfg:      cfg,
		engine:   engine,
		strategy: strat,
		log:      log.With().Str("component", "autopilot").Logger(),
		events:   make(chan autopilot.Event, cfg.EventBuffer),
	}
}

// Run starts a run and plays it until game over, the step limit or ctx ends.
// A Runner runs once; its events channel is closed when Run returns.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if !r.ran.CompareAndSwap(false, true) {
		return Result{}, ErrAlreadyRan
	}
	defer close(r.events)

	snap, err := r.engine.StartRun(r.cfg.Days)
	if err != nil {
		return Result{}, fmt.Errorf("start run: %w", err)
	}
	r.log = r.log.With().Str("run_id", snap.RunID).Logger()
	cat := r.engine.Catalog()

	for snap.Status == economy.StatusPlaying && r.result.Steps < r.cfg.MaxSteps {
		if err := r.wait(ctx); err != nil {
			return r.finish(snap), err
		}
		snap = r.day(ctx, snap, cat)
		r.result.Steps++
	}

	res := r.finish(snap)
	r.emitEvent(autopilot.Event{
		RunID:   res.RunID,
		Time:    time.Now().UnixNano(),
		Day:     res.Day,
		Type:    autopilot.EventFinished,
		Message: "net worth " + economy.FormatMoney(res.NetWorth),
	})
	r.log.Info().
		Str("status", res.Status.String()).
		Int("day", res.Day).
		Float64("net_worth", res.NetWorth).
		Int("rejected", res.Rejected).
		Msg("autopilot finished")
	return res, nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.cfg.TickInterval <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.cfg.TickInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// day plays the strategy's actions for one day and makes sure it ends with
// a travel.
func (r *Runner) day(ctx context.Context, snap game.Snapshot, cat *catalog.Catalog) game.Snapshot {
	for _, a := range r.strategy.Step(ctx, snap, cat) {
		next, err := r.execute(ctx, snap, a)
		snap = next
		if a.Kind != autopilot.ActionTravel {
			continue
		}
		if err == nil {
			return snap
		}
		break
	}
	snap, _ = r.execute(ctx, snap, autopilot.Travel(autopilot.NextVenue(cat, snap.Player.VenueID)))
	return snap
}

func (r *Runner) execute(ctx context.Context, snap game.Snapshot, a autopilot.Action) (game.Snapshot, error) {
	var (
		next game.Snapshot
		err  error
	)
	switch a.Kind {
	case autopilot.ActionBuy:
		next, err = r.engine.Buy(a.Asset)
	case autopilot.ActionSell:
		next, err = r.engine.Sell(a.Asset)
	case autopilot.ActionRepay:
		next, err = r.engine.RepayDebt()
	case autopilot.ActionTravel:
		next, err = r.engine.Travel(ctx, a.Venue)
	default:
		return snap, fmt.Errorf("unknown action %d", a.Kind)
	}

	ev := autopilot.Event{
		RunID:  next.RunID,
		Time:   time.Now().UnixNano(),
		Day:    next.Player.Day,
		Action: &a,
	}
	if err != nil {
		r.result.Rejected++
		ev.Type = autopilot.EventRejected
		ev.Message = err.Error()
		r.log.Debug().Err(err).Str("action", a.Kind.String()).Msg("action rejected")
	} else {
		r.result.Actions++
		ev.Type = autopilot.EventActed
		if len(next.Player.History) > 0 {
			ev.Message = next.Player.History[0]
		}
	}
	r.emitEvent(ev)
	return next, err
}

func (r *Runner) finish(snap game.Snapshot) Result {
	res := r.result
	res.RunID = snap.RunID
	res.Status = snap.Status
	res.Day = snap.Player.Day
	res.MaxDays = snap.Player.MaxDays
	res.NetWorth = snap.NetWorth()
	res.Cash = snap.Player.Cash
	res.Debt = snap.Player.Debt
	res.Health = snap.Player.Health
	return res
}

func (r *Runner) emitEvent(ev autopilot.Event) {
	if r.cfg.DropEvents {
		select {
		case r.events <- ev:
		default:
			r.droppedEvents.Add(1)
		}
	} else {
		r.events <- ev
	}
}

// Events returns the autopilot events channel.
func (r *Runner) Events() <-chan autopilot.Event {
	return r.events
}

// DroppedEvents returns the count of dropped events.
func (r *Runner) DroppedEvents() int64 {
	return r.droppedEvents.Load()
}
