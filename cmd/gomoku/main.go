// Command gomoku serves a game of Gomoku against the computer over HTTP or in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jaminalder/codex-gomoku/internal/app"
	"github.com/jaminalder/codex-gomoku/internal/config"
	"github.com/jaminalder/codex-gomoku/internal/logging"
	"github.com/jaminalder/codex-gomoku/internal/metrics"
	"github.com/jaminalder/codex-gomoku/internal/tui"
	"github.com/jaminalder/codex-gomoku/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "gomoku:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Parse("gomoku", args)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m := metrics.New()
	svc := app.NewService(
		app.WithBoard(cfg.BoardSize, cfg.WinLength),
		app.WithHumanFirst(cfg.HumanFirst),
		app.WithSeed(cfg.Seed),
		app.WithLogger(log),
		app.WithMetrics(m),
	)

	if cfg.Mode == config.ModeTUI {
		ui, err := tui.New(svc, tui.WithLogger(log))
		if err != nil {
			return err
		}
		return ui.Run()
	}
	return serve(cfg, svc, m, log)
}

func serve(cfg config.Config, svc *app.Service, m *metrics.Metrics, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewServer(svc,
			web.WithLogger(log),
			web.WithMetrics(m),
			web.WithHeartbeat(cfg.Heartbeat)),
		ReadHeaderTimeout: 5 * time.Second,
		// event streams end with the signal context so Shutdown does not wait on them
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr),
			zap.Int("size", cfg.BoardSize), zap.Int("win_length", cfg.WinLength))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
