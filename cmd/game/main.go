// Package main runs the text adventure in the terminal.
//
// It reads config from the environment, wires the backend, loader, dispatcher
// and renderer together and blocks until the dispatcher terminates.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tatianab/text-adventure/internal/config"
	"github.com/tatianab/text-adventure/internal/dispatcher"
	"github.com/tatianab/text-adventure/internal/engine"
	"github.com/tatianab/text-adventure/internal/loader"
	"github.com/tatianab/text-adventure/internal/logging"
	"github.com/tatianab/text-adventure/internal/message"
	"github.com/tatianab/text-adventure/internal/telemetry"
	"github.com/tatianab/text-adventure/internal/transcript"
	"github.com/tatianab/text-adventure/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logFile, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	if cfg.Telemetry {
		shutdown, err := telemetry.Setup(ctx, cfg.Model)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				log.Warn("telemetry shutdown", "error", err)
			}
		}()
	}

	systemPrompt, err := cfg.LoadSystemPrompt()
	if err != nil {
		return err
	}

	tw, err := transcript.Open(cfg.TranscriptPath, log)
	if err != nil {
		return err
	}
	defer tw.Close()

	eng, err := engine.NewEngine(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close()

	gl, err := loader.New(eng, loader.Options{
		Model:        cfg.Model,
		SystemPrompt: systemPrompt,
		Timeout:      cfg.RequestTimeout,
		Transcript:   tw,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	log.Info("starting", "model", cfg.Model, "transcript", cfg.TranscriptPath)
	err = play(ctx, gl, log)
	if err != nil {
		log.Error("game ended with error", "error", err)
	}
	return err
}

// play runs the dispatcher and the renderer until the dispatcher terminates.
// The terminal is restored before play returns.
func play(ctx context.Context, gl dispatcher.Loader, log *slog.Logger) error {
	keysIn, keysOut := message.Unbounded[dispatcher.KeyEvent]()
	uiIn, uiOut := message.Unbounded[message.Message]()
	appIn, appOut := message.Unbounded[message.Message]()

	renderer := tui.NewRenderer(keysIn)
	d := dispatcher.New(gl, uiIn, appIn, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.Run(gctx, keysOut)
	})
	g.Go(func() error {
		if err := renderer.Run(); err != nil {
			return fmt.Errorf("renderer: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		renderer.Present(uiOut)
		return nil
	})

	for msg := range appOut {
		if _, ok := msg.(message.Terminate); ok {
			log.Debug("terminate received")
			break
		}
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		log.Info("interrupted")
		return nil
	}
	return err
}
