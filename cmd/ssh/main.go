package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	sshlog "github.com/charmbracelet/wish/logging"
	"github.com/tomz197/starfield/internal/config"
	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/input"
	"github.com/tomz197/starfield/internal/logging"
	"github.com/tomz197/starfield/internal/loop"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

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

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		log.Warn("get working directory", zap.Error(workErr))
	}
	log.Info("ssh config",
		zap.String("addr", cfg.Addr()),
		zap.String("host_key", cfg.SSH.HostKeyPath),
		zap.String("variant", cfg.Starfield.Variant),
		zap.String("working_dir", workingDir))

	opts := []ssh.Option{
		wish.WithAddress(cfg.Addr()),
		wish.WithMiddleware(
			starfieldMiddleware(cfg, log),
			activeterm.Middleware(),
			sshlog.Middleware(),
		),
		// Set TCP_NODELAY so frames are not held back by Nagle
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.SSH.IdleTimeout))
	}
	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	log.Info("starting ssh server", zap.String("addr", cfg.Addr()))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-done:
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// starfieldMiddleware gives every PTY session its own view: pool, timers and event loop.
func starfieldMiddleware(cfg *config.Config, log *zap.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			slog := log.With(
				zap.String("user", sess.User()),
				zap.String("remote", sess.RemoteAddr().String()))
			slog.Info("session started",
				zap.String("term", pty.Term),
				zap.Int("width", pty.Window.Width),
				zap.Int("height", pty.Window.Height))

			// Terminal size tracker fed by window change events
			sizes := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizes.update(win.Width, win.Height)
				}
			}()

			t := draw.NewTerminal(sess, sizes.getSize, cfg.Viewport.Width, cfg.Viewport.Height, cfg.Display.MaxCols, cfg.Display.MaxRows)
			if err := t.Open(); err != nil {
				slog.Warn("open terminal", zap.Error(err))
				return
			}

			l := loop.NewEventLoop()
			input.Watch(sess, l.Quit)

			opts := loop.OptionsFromConfig(cfg)
			opts.Logger = slog
			err := loop.NewView(l, t, opts).Run(sess.Context())

			if sessionEnded(err) {
				slog.Info("session ended", zap.NamedError("reason", err))
			} else {
				slog.Warn("session failed", zap.Error(err))
			}
			next(sess)
		}
	}
}

func sessionEnded(err error) bool {
	return err == nil ||
		errors.Is(err, input.ErrQuitKey) ||
		errors.Is(err, loop.ErrQuit) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF)
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
