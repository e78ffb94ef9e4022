package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/JeanRibes/progression/music"
	. "github.com/JeanRibes/progression/shared"
	"github.com/JeanRibes/progression/store"
	"github.com/JeanRibes/progression/ui"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var runFlags struct {
	bpm     float64
	ppqn    int
	listen  string
	state   string
	library string
	port    string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run the instrument",
	Long: `run drives the engine from the serial clock, or from an internal clock
at --bpm when no serial port is configured, and serves the status on
--listen. The config file is reloaded when it changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil && !missing(err) {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("bpm") {
			cfg.BPM = runFlags.bpm
		}
		if flags.Changed("ppqn") {
			cfg.PPQN = runFlags.ppqn
		}
		if flags.Changed("listen") {
			cfg.Listen = runFlags.listen
		}
		if flags.Changed("state") {
			cfg.StateFile = runFlags.state
		}
		if flags.Changed("library") {
			cfg.Library = runFlags.library
		}
		if flags.Changed("serial") {
			cfg.Serial.Port = runFlags.port
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	f := runCmd.Flags()
	f.Float64Var(&runFlags.bpm, "bpm", 120, "internal clock tempo")
	f.IntVar(&runFlags.ppqn, "ppqn", 1, "internal clock edges per quarter note")
	f.StringVar(&runFlags.listen, "listen", ":8080", "status server address, empty to disable")
	f.StringVar(&runFlags.state, "state", "progression-state.json", "state file, empty to disable")
	f.StringVar(&runFlags.library, "library", "", "lua file with extra scales and matrices")
	f.StringVar(&runFlags.port, "serial", "", "serial port of the clock board")
	rootCmd.AddCommand(runCmd)
}

func run(parent context.Context, cfg HostConfig) error {
	logger := newLogger("main")
	lib, err := loadLibrary(cfg.Library)
	if err != nil {
		logger.Warn("library", "err", err)
	}

	engine := music.NewEngine(cfg.Config, nil, music.WithLibrary(lib), music.WithLogger(newLogger("engine")))

	var saver music.StateStore
	instance := ""
	if cfg.StateFile != "" {
		st := store.Open(cfg.StateFile)
		st.SetLogger(newLogger("store"))
		instance = st.Instance()
		saver = st
		state, err := st.Load()
		switch {
		case err == nil:
			if err := engine.Restore(state); err == nil {
				logger.Info("restored", "path", st.Path(), "key", engine.Status().Key)
			}
		case errors.Is(err, store.ErrEmpty):
			logger.Info("no saved state", "path", st.Path())
		default:
			logger.Warn("state", "err", err)
		}
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	SinkUI := make(chan Message, 16)
	SinkLoop := make(chan Message, 64)

	server := ui.New(instance, cfg.Config, engine.Library(), SinkLoop)
	server.SetLogger(newLogger("ui"))
	uiCtx := context.WithValue(ctx, charmlog.ContextKey, newLogger("ui"))
	go ui.Loop(uiCtx, SinkUI, server)
	if cfg.Listen != "" {
		go func() {
			if err := server.ListenAndServe(ctx, cfg.Listen); err != nil {
				logger.Error("http", "err", err)
			}
		}()
	}
	if err := server.SetConfig(ctx, cfg.Config); err != nil {
		logger.Warn("config", "err", err)
	}

	if cfg.Serial.Port != "" {
		serialCtx := context.WithValue(ctx, charmlog.ContextKey, newLogger("serial"))
		go func() {
			if err := serialClock(serialCtx, cfg.Serial, SinkLoop); err != nil {
				logger.Error("serial clock stopped", "err", err)
				select {
				case SinkUI <- Message{Type: Error, String: err.Error()}:
				case <-ctx.Done():
				}
			}
		}()
	} else {
		period := clockPeriod(cfg.BPM, cfg.PPQN)
		logger.Info("internal clock", "bpm", cfg.BPM, "ppqn", cfg.PPQN, "period", period)
		go tick(ctx, period, Message{Type: Clock}, SinkLoop)
	}
	go tick(ctx, time.Second/time.Duration(cfg.ControlHz), Message{Type: Cycle}, SinkLoop)

	watchCtx := context.WithValue(ctx, charmlog.ContextKey, newLogger("config"))
	go watchConfig(watchCtx, configPath, func(c HostConfig) {
		if err := server.SetConfig(ctx, c.Config); err != nil {
			logger.Warn("config", "err", err)
		}
	})

	go func() {
		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, os.Interrupt)
		select {
		case <-signalCh:
			logger.Info("interrupt")
			SinkLoop <- Message{Type: Quit}
		case <-ctx.Done():
		}
	}()

	loopCtx := context.WithValue(ctx, charmlog.ContextKey, newLogger("loop"))
	music.Run(loopCtx, cancel, engine, saver, SinkUI, SinkLoop)
	return nil
}
