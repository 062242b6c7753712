package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/starfield/internal/config"
	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/input"
	"github.com/tomz197/starfield/internal/logging"
	"github.com/tomz197/starfield/internal/loop"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// defaultLogFile keeps log output off the terminal the starfield is drawn on.
const defaultLogFile = "starfield.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = defaultLogFile
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := loop.NewEventLoop()
	var display loop.Display

	switch cfg.Display.Backend {
	case config.BackendTcell:
		screen, err := draw.NewTcellScreen()
		if err != nil {
			return fmt.Errorf("display: %w", err)
		}
		display = draw.NewScreen(screen, cfg.Viewport.Width, cfg.Viewport.Height, cfg.Display.MaxCols, cfg.Display.MaxRows)
		input.WatchScreen(screen, func() { l.Post(screen.Sync) }, l.Quit)

	default:
		fd := int(os.Stdin.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("enable raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(fd, oldState)
		}()

		t := draw.NewTerminal(os.Stdout, nil, cfg.Viewport.Width, cfg.Viewport.Height, cfg.Display.MaxCols, cfg.Display.MaxRows)
		if err := t.Open(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		display = t
		input.Watch(os.Stdin, l.Quit)
	}

	opts := loop.OptionsFromConfig(cfg)
	opts.Logger = log
	log.Info("starfield started",
		zap.String("variant", cfg.Starfield.Variant),
		zap.String("backend", cfg.Display.Backend),
		zap.String("placement", cfg.Clock.Placement))

	err = loop.NewView(l, display, opts).Run(ctx)
	if stopped(err) {
		log.Info("starfield stopped", zap.NamedError("reason", err))
		return nil
	}
	return err
}

// stopped reports whether err is an ordinary way for the view to end.
func stopped(err error) bool {
	return err == nil ||
		errors.Is(err, input.ErrQuitKey) ||
		errors.Is(err, loop.ErrQuit) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF)
}
