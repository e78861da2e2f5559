package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/config"
	"github.com/zappabad/dexwars/internal/entropy"
	"github.com/zappabad/dexwars/internal/game"
	"github.com/zappabad/dexwars/internal/logger"
	"github.com/zappabad/dexwars/internal/narrative"
	"github.com/zappabad/dexwars/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The terminal belongs to Bubble Tea, so logs go to a file.
	logFile, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: logFile,
	})

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
	}

	gameCfg := game.DefaultConfig()
	gameCfg.Catalog = cat
	gameCfg.Seed = cfg.Seed
	gameCfg.Logger = log
	if cfg.NarrativeTimeout > 0 {
		gameCfg.NarratorConfig.Timeout = cfg.NarrativeTimeout
	}

	g := game.NewGame(gameCfg, newsGenerator(cfg, cat, log))
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	p := tea.NewProgram(tui.NewModel(ctx, g, cfg.ShareURL, log), tea.WithAltScreen())

	eg.Go(func() error {
		defer stop()
		_, err := p.Run()
		return err
	})
	eg.Go(func() error {
		<-ctx.Done()
		p.Quit()
		return nil
	})

	log.Info().Int("assets", len(cat.Assets)).Int("venues", len(cat.Venues)).Msg("dexwars started")
	if err := eg.Wait(); err != nil {
		return err
	}
	log.Info().Msg("dexwars stopped")
	return nil
}

// newsGenerator returns the LLM client when a key is configured and the
// offline headline generator otherwise.
func newsGenerator(cfg *config.Config, cat *catalog.Catalog, log zerolog.Logger) narrative.Generator {
	assets := make([]string, 0, len(cat.Assets))
	for _, a := range cat.Assets {
		assets = append(assets, a.Name)
	}

	client := narrative.NewClient(narrative.ClientConfig{
		APIKey: cfg.LLMAPIKey,
		URL:    cfg.LLMAPIURL,
		Model:  cfg.LLMModel,
		Assets: assets,
	}, log)
	if !client.Enabled() {
		log.Info().Msg("LLM_API_KEY not set, using offline headlines")
		return narrative.NewStatic(entropy.NewRand(cfg.Seed))
	}
	return client
}
