// Package main is the entry point for the agent console.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/chatlead/agent-console/internal/aipanel"
	"github.com/chatlead/agent-console/internal/api"
	"github.com/chatlead/agent-console/internal/composer"
	"github.com/chatlead/agent-console/internal/config"
	"github.com/chatlead/agent-console/internal/crm"
	"github.com/chatlead/agent-console/internal/debugserver"
	"github.com/chatlead/agent-console/internal/poll"
	"github.com/chatlead/agent-console/internal/recorder"
	"github.com/chatlead/agent-console/internal/tui"
	"github.com/chatlead/agent-console/pkg/logger"
	"github.com/chatlead/agent-console/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger. Stderr is owned by the TUI, so logs go to a file.
	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting agent console", zap.String("backend", cfg.APIBaseURL))

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "agent-console", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Backend client
	client := api.New(api.Options{
		BaseURL: cfg.APIBaseURL,
		Token:   cfg.APIToken,
		Timeout: cfg.HTTPTimeout,
		Logger:  log,
	})

	// Controllers
	comp := composer.New(client, log)
	rec := recorder.New(&recorder.FFmpegDevice{
		Command: cfg.RecorderCommand,
		Input:   cfg.RecorderInput,
	}, client, comp, log)
	crmForm := crm.New(client, log)
	panel := aipanel.New(client, log)

	// Polling engine. Updates land on the bubbletea program through Send,
	// which is safe from the scheduler goroutine.
	var program *tea.Program
	engine := poll.NewEngine(poll.Config{
		Backend:        client,
		Scheduler:      poll.TickerScheduler{},
		Logger:         log,
		ListInterval:   cfg.PollInterval,
		ThreadInterval: cfg.MessagePollInterval,
		OnList: func(u poll.ListUpdate) {
			program.Send(tui.ListUpdated(u))
		},
		OnThread: func(u poll.ThreadUpdate) {
			program.Send(tui.ThreadUpdated(u))
		},
	})
	defer engine.Stop()

	// Local debug listener
	if cfg.DebugAddr != "" {
		debug := debugserver.New(cfg.DebugAddr, client, log)
		debug.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			debug.Shutdown(shutdownCtx)
		}()
	}

	app := tui.New(ctx, tui.Deps{
		Config:   cfg,
		Logger:   log,
		Client:   client,
		Engine:   engine,
		Composer: comp,
		Recorder: rec,
		CRMForm:  crmForm,
		Panel:    panel,
	})

	program = tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error("console exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log.Info("agent console stopped")
}
