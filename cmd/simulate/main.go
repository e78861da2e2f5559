package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/zappabad/dexwars/internal/autopilot"
	"github.com/zappabad/dexwars/internal/autopilot/runner"
	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/config"
	"github.com/zappabad/dexwars/internal/economy"
	"github.com/zappabad/dexwars/internal/entropy"
	"github.com/zappabad/dexwars/internal/game"
	"github.com/zappabad/dexwars/internal/logger"
	"github.com/zappabad/dexwars/internal/narrative"
)

func main() {
	runs := flag.Int("runs", 8, "number of runs to play in parallel")
	days := flag.Int("days", 30, "run length in days")
	strategy := flag.String("strategy", "dip", "autopilot strategy: dip or random")
	seed := flag.Int64("seed", 69420, "base seed; run i uses seed+i")
	tick := flag.Duration("tick", 0, "pause between days")
	verbose := flag.Bool("v", false, "log every autopilot action")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true, Output: os.Stdout})

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load the catalog.
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			log.Fatal().Err(err).Msg("load catalog")
		}
	}
	if !cat.Balance.AllowsDays(*days) {
		log.Fatal().Int("days", *days).Ints("options", cat.Balance.DayOptions).Msg("unsupported run length")
	}

	// 2. Play every run on its own game.
	results := make([]runner.Result, *runs)
	eg, ctx := errgroup.WithContext(ctx)
	for i := range *runs {
		runSeed := *seed + int64(i)
		strat, err := newStrategy(*strategy, entropy.NewRand(runSeed+1))
		if err != nil {
			log.Fatal().Err(err).Msg("bad strategy")
		}

		eg.Go(func() error {
			res, err := play(ctx, cat, runSeed, *days, *tick, strat, log)
			results[i] = res
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Error().Err(err).Msg("simulation interrupted")
	}

	// 3. Report.
	report(results, log)
}

func newStrategy(name string, src entropy.Source) (autopilot.Strategy, error) {
	switch name {
	case "dip":
		return autopilot.NewDipBuyer(src), nil
	case "random":
		return autopilot.NewRandomStrategy(src), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

func play(ctx context.Context, cat *catalog.Catalog, seed int64, days int, tick time.Duration, strat autopilot.Strategy, log zerolog.Logger) (runner.Result, error) {
	gameCfg := game.DefaultConfig()
	gameCfg.Catalog = cat
	gameCfg.Seed = seed
	gameCfg.Logger = log

	g := game.NewGame(gameCfg, narrative.NewStatic(entropy.NewRand(seed)))
	defer g.Close()

	rcfg := runner.DefaultConfig()
	rcfg.Days = days
	rcfg.TickInterval = tick
	r := runner.NewRunner(rcfg, g, strat, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range r.Events() {
			if ev.Type == autopilot.EventRejected {
				continue
			}
			log.Debug().Str("run_id", ev.RunID).Int("day", ev.Day).Msg(ev.Message)
		}
	}()

	res, err := r.Run(ctx)
	<-done
	return res, err
}

func report(results []runner.Result, log zerolog.Logger) {
	played := results[:0:0]
	for _, res := range results {
		if res.RunID != "" {
			played = append(played, res)
		}
	}
	if len(played) == 0 {
		return
	}
	sort.Slice(played, func(i, j int) bool {
		return played[i].NetWorth > played[j].NetWorth
	})

	var total float64
	finished := 0
	for _, res := range played {
		total += res.NetWorth
		if res.Status == economy.StatusGameOver {
			finished++
		}
		log.Info().
			Str("run_id", res.RunID).
			Str("status", res.Status.String()).
			Int("day", res.Day).
			Str("net_worth", economy.FormatMoney(res.NetWorth)).
			Str("debt", economy.FormatMoney(res.Debt)).
			Int("opsec", res.Health).
			Int("actions", res.Actions).
			Int("rejected", res.Rejected).
			Msg("run")
	}

	log.Info().
		Int("runs", len(played)).
		Int("finished", finished).
		Str("best", economy.FormatMoney(played[0].NetWorth)).
		Str("mean", economy.FormatMoney(total/float64(len(played)))).
		Msg("simulation complete")
}
