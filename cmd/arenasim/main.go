// Package main runs an arena combat scenario: it loads content, spawns the
// scenario's units and drives the simulation loop until the scenario's
// duration elapses or the process is interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/arena"
	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/content"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/rules"
	"github.com/cory-johannsen/arena/internal/game/status"
	"github.com/cory-johannsen/arena/internal/game/unit"
	"github.com/cory-johannsen/arena/internal/notify"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/scripting"
	"github.com/cory-johannsen/arena/internal/server"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	scenarioPath := flag.String("scenario", "content/scenarios/skirmish.yaml", "path to scenario YAML file")
	duration := flag.Duration("duration", 0, "override the scenario duration; 0 keeps the scenario's own")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	scenario, err := arena.LoadScenario(*scenarioPath)
	if err != nil {
		logger.Fatal("loading scenario", zap.Error(err))
	}
	if *duration > 0 {
		scenario.Duration = *duration
	}

	matchID := uuid.New()
	mlog := observability.ForMatch(logger, matchID, "arena")
	mlog.Info("starting arena simulation",
		zap.String("scenario", scenario.Name),
		zap.Duration("duration", scenario.Duration),
		zap.Duration("tick_interval", cfg.Simulation.TickInterval),
		zap.Bool("fixed_step", cfg.Simulation.FixedStep),
	)

	loadStart := time.Now()
	units, err := content.LoadDirectory(cfg.Content.UnitsDir)
	if err != nil {
		logger.Fatal("loading unit definitions", zap.Error(err))
	}
	effects, err := status.LoadDirectory(cfg.Content.EffectsDir)
	if err != nil {
		logger.Fatal("loading status effect definitions", zap.Error(err))
	}
	rewards, err := rules.Load(cfg.Content.RulesFile)
	if err != nil {
		logger.Fatal("loading reward rules", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("models", len(units.Models())),
		zap.Int("effects", effects.Len()),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	src := dice.NewSource(cfg.Simulation.Seed)
	if cfg.Logging.Level == "debug" {
		src = dice.NewLoggedSource(src, logger.Named("dice"))
	}

	var hooks unit.HookRegistry
	var scriptMgr *scripting.Manager
	if cfg.Content.ScriptRoot != "" {
		scriptMgr = scripting.NewManager(src, logger.Named("scripting"))
		defer scriptMgr.Close()
		models, err := scriptMgr.LoadAll(cfg.Content.ScriptRoot, cfg.Content.InstructionLimit)
		if err != nil {
			logger.Fatal("loading unit scripts", zap.Error(err))
		}
		logger.Info("unit scripts loaded", zap.Strings("models", models))
		hooks = arena.NewScriptHooks(scriptMgr)
	}

	sinks := notify.Fanout{notify.NewLogSink(mlog.Named("events"))}

	// world is assigned before the first tick; the journal clock only runs inside ticks.
	var world *arena.World
	var journal *postgres.JournalSink
	var repo *postgres.JournalRepository
	if cfg.Journal.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		repo = postgres.NewJournalRepository(pool.DB())
		if err := repo.StartMatch(ctx, matchID, scenario.Name); err != nil {
			logger.Fatal("recording match", zap.Error(err))
		}
		journal = postgres.NewJournalSink(repo, matchID,
			func() float64 { return world.Elapsed() },
			cfg.Journal.BufferSize, cfg.Journal.FlushInterval, logger.Named("journal"))
		sinks = append(sinks, journal)
	}

	world, err = arena.NewWorld(
		arena.Options{
			Width:       cfg.Simulation.Width,
			Height:      cfg.Simulation.Height,
			AutoAcquire: cfg.Simulation.AutoAcquire,
			MatchID:     matchID,
		},
		arena.Deps{
			Content:  units,
			Effects:  effects,
			Rules:    rewards,
			Hooks:    hooks,
			Notifier: sinks,
			Random:   src,
			Logger:   logger.Named("arena"),
		},
	)
	if err != nil {
		logger.Fatal("creating world", zap.Error(err))
	}
	if scriptMgr != nil {
		arena.BindEngine(scriptMgr, world)
	}

	spawned, err := scenario.Apply(world)
	if err != nil {
		logger.Fatal("applying scenario", zap.Error(err))
	}
	mlog.Info("scenario applied", zap.Int("units", len(spawned)))

	loop := arena.NewLoop(world, cfg.Simulation.TickInterval, cfg.Simulation.FixedStep, mlog.Named("loop"))

	lifecycle := server.NewLifecycle(logger)
	if journal != nil {
		lifecycle.Add("journal", server.ServiceFunc(func(ctx context.Context) error {
			journal.Start()
			<-ctx.Done()
			journal.Close()
			if n := journal.Dropped(); n > 0 {
				logger.Warn("journal entries dropped", zap.Uint64("count", n))
			}
			return repo.EndMatch(context.Background(), matchID, world.Elapsed())
		}))
	}
	if scriptMgr != nil && cfg.Content.WatchScripts {
		lifecycle.Add("script-watcher", server.ServiceFunc(func(ctx context.Context) error {
			if err := scriptMgr.Watch(ctx, cfg.Content.ScriptRoot, cfg.Content.InstructionLimit); err != nil {
				logger.Warn("script hot reload disabled", zap.Error(err))
			}
			<-ctx.Done()
			return nil
		}))
	}
	lifecycle.Add("simulation", server.ServiceFunc(func(ctx context.Context) error {
		if scenario.Duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, scenario.Duration)
			defer cancel()
		}
		return loop.Run(ctx)
	}))

	logger.Info("arena simulation ready", zap.Duration("startup", time.Since(start)))
	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("simulation ended with errors", zap.Error(err))
	}

	alive := 0
	for _, u := range world.Units() {
		if !u.IsDead() {
			alive++
		}
	}
	mlog.Info("match finished",
		zap.Uint64("frames", loop.Frames()),
		zap.Float64("elapsed_ms", world.Elapsed()),
		zap.Int("units_alive", alive),
	)
}
