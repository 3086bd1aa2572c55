// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
	"github.com/mudforge/mudforge/internal/command/handlers"
	"github.com/mudforge/mudforge/internal/content"
	"github.com/mudforge/mudforge/internal/engine"
	"github.com/mudforge/mudforge/internal/logging"
	"github.com/mudforge/mudforge/internal/observability"
	"github.com/mudforge/mudforge/internal/session"
	"github.com/mudforge/mudforge/internal/skill"
	"github.com/mudforge/mudforge/internal/telnet"
	"github.com/mudforge/mudforge/internal/trigger"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the game server",
		Long: `Start the game server: the tick loop, the telnet listener, and
the observability endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(resolveConfigFile(), cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("telnet-addr", defaultTelnetAddr, "telnet listen address")
	cmd.Flags().String("metrics-addr", defaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log-format", defaultLogFormat, "log format (json or text)")
	cmd.Flags().String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	cmd.Flags().Int64("tick-millis", defaultTickMillis, "tick length in milliseconds")
	cmd.Flags().Int64("ticks-per-round", defaultTicksPerRound, "ticks between combat rounds")
	cmd.Flags().Int64("regen-every-ticks", defaultRegenEvery, "ticks between regeneration passes")
	cmd.Flags().String("skills-dir", "", "directory of skill catalog files")
	cmd.Flags().String("socials-file", "", "YAML file of social gestures")
	cmd.Flags().String("world-file", "", "YAML world definition file")
	cmd.Flags().Int64("linkdead-minutes", defaultLinkdeadMins, "idle minutes before a connection is linkdead")

	return cmd
}

func runServe(ctx context.Context, cfg *serveConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.SetDefault(logging.Options{
		Service: "mudforge",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
	})

	slog.Info("starting server",
		"telnet_addr", cfg.TelnetAddr,
		"tick_millis", cfg.TickMillis,
		"ticks_per_round", cfg.TicksPerRound,
	)

	world := engine.NewWorld()
	triggers := trigger.NewRunner()

	tracker := trigger.NewTracker(
		trigger.WithNarrationGate(func(id ulid.ULID) bool {
			a, ok := world.Actor(id)
			return ok && a.Flags.Has(actor.FlagNarrative)
		}),
	)

	registry := command.NewRegistry()
	handlers.RegisterAll(registry, handlers.Deps{Triggers: triggers})

	dispatcherOpts := []command.DispatcherOption{
		command.WithTriggerRecorder(tracker),
	}

	if cfg.SocialsFile != "" {
		socials := command.NewSocialTable()
		if err := socials.LoadSocialFile(cfg.SocialsFile); err != nil {
			return fmt.Errorf("loading socials: %w", err)
		}
		dispatcherOpts = append(dispatcherOpts, command.WithSocials(socials))
		slog.Info("socials loaded", "path", cfg.SocialsFile)
	}

	if cfg.SkillsDir != "" {
		catalog, err := skill.LoadDir(cfg.SkillsDir)
		if err != nil {
			return fmt.Errorf("loading skill catalog: %w", err)
		}
		manager, err := skill.NewManager(catalog)
		if err != nil {
			return err
		}
		if err := manager.ValidateEffects(); err != nil {
			return fmt.Errorf("validating skill effects: %w", err)
		}
		dispatcherOpts = append(dispatcherOpts, command.WithSkillResolver(manager))
		slog.Info("skill catalog loaded", "skills", catalog.Len(), "dir", cfg.SkillsDir)
	}

	dispatcher, err := command.NewDispatcher(registry, dispatcherOpts...)
	if err != nil {
		return err
	}

	sessions := session.NewManager(
		session.WithLinkdeadAfter(time.Duration(cfg.LinkdeadMinutes) * time.Minute),
	)

	eng, err := engine.New(
		engine.Config{
			TickDuration:    cfg.TickDuration(),
			TicksPerRound:   cfg.TicksPerRound,
			RegenEveryTicks: cfg.RegenEveryTicks,
		},
		world, dispatcher,
		engine.WithTriggers(triggers),
		engine.WithTracker(tracker),
		engine.WithInputSource(sessions),
	)
	if err != nil {
		return err
	}
	tracker.SetInjector(eng)

	defaultRoomID, err := loadWorldContent(cfg, world, triggers)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool { return true })
		obsErrCh, startErr := obsServer.Start()
		if startErr != nil {
			return fmt.Errorf("starting observability server: %w", startErr)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	binder := &characterBinder{engine: eng, defaultRoomID: defaultRoomID}
	telnetServer := telnet.NewServer(cfg.TelnetAddr, binder, sessions)

	serverErrCh := make(chan error, 2)
	go func() {
		serverErrCh <- telnetServer.Run(ctx)
	}()
	go func() {
		serverErrCh <- eng.Run(ctx)
	}()
	go linkdeadSweep(ctx, sessions, eng)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	slog.Info("server ready")

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-serverErrCh:
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")
	cancel()
	eng.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// loadWorldContent builds the arena from the world file, or a single
// default room when none is configured. Returns the room new characters
// spawn into.
func loadWorldContent(cfg *serveConfig, world *engine.World, triggers *trigger.Runner) (ulid.ULID, error) {
	worldFile := cfg.WorldFile
	if worldFile == "" {
		room := actor.New(ulid.Make(), actor.KindRoom, "The Commons")
		room.SetVar("description", "A quiet square where new arrivals find their feet.")
		world.Add(room)
		return room.ID, nil
	}

	wf, err := content.Load(worldFile)
	if err != nil {
		return ulid.ULID{}, err
	}
	roomIDs, err := content.Build(wf, world, triggers)
	if err != nil {
		return ulid.ULID{}, err
	}
	if len(roomIDs) == 0 {
		return ulid.ULID{}, fmt.Errorf("world file %s defines no rooms", worldFile)
	}
	slog.Info("world content loaded", "rooms", len(roomIDs), "path", worldFile)
	return roomIDs[0], nil
}

// characterBinder attaches connections to characters by marshaling the
// world mutation onto the engine loop thread.
type characterBinder struct {
	engine        *engine.Engine
	defaultRoomID ulid.ULID
}

// BindCharacter finds or creates the named character, attaches the output,
// and returns its id. Blocks until the next tick processes the request.
func (b *characterBinder) BindCharacter(ctx context.Context, name string, out actor.Output) (ulid.ULID, error) {
	type result struct {
		id  ulid.ULID
		err error
	}
	done := make(chan result, 1)

	b.engine.Submit(func(w *engine.World) {
		if existing, ok := w.FindCharacter(name); ok {
			existing.AttachOutput(out)
			done <- result{id: existing.ID}
			return
		}
		pc := actor.New(ulid.Make(), actor.KindCharacter, name)
		pc.LocationID = b.defaultRoomID
		pc.SetFlags(actor.FlagPC)
		pc.Stamina, pc.MaxStamina = 100, 100
		pc.Mana, pc.MaxMana = 50, 50
		pc.Attributes[actor.AttrStrength] = 10
		pc.Attributes[actor.AttrDexterity] = 10
		pc.AttachOutput(out)
		w.Add(pc)
		done <- result{id: pc.ID}
	})

	select {
	case res := <-done:
		return res.id, res.err
	case <-ctx.Done():
		return ulid.ULID{}, ctx.Err()
	}
}

// ReleaseCharacter detaches the output so further game text is dropped.
func (b *characterBinder) ReleaseCharacter(id ulid.ULID) {
	b.engine.Submit(func(w *engine.World) {
		if a, ok := w.Actor(id); ok {
			a.AttachOutput(nil)
		}
	})
}

// linkdeadSweep periodically detaches actors whose connections went idle.
func linkdeadSweep(ctx context.Context, sessions *session.Manager, eng *engine.Engine) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, actorID := range sessions.SweepLinkdead() {
				id := actorID
				eng.Submit(func(w *engine.World) {
					if a, ok := w.Actor(id); ok {
						a.AttachOutput(nil)
						w.EchoRoom(a.LocationID, actor.ChannelDynamic,
							fmt.Sprintf("%s has gone linkdead.", a.Name), a.ID)
					}
				})
			}
		}
	}
}

// monitorServerErrors cancels the run context when a background server
// reports a fatal error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
