package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the matchmaking server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, app)
		},
	}

	cmd.Flags().Int("port", 0, "Listen port (default from config, PORT or NODE_PORT, else 3000)")
	cmd.Flags().Duration("sweep-interval", 0, "How often complete sessions are reclaimed")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

func runServe(cmd *cobra.Command, app *app) error {
	loader, err := app.newLoader()
	if err != nil {
		return err
	}

	v := loader.Viper()
	for key, flag := range map[string]string{
		"server.port":                "port",
		"matchmaking.sweep_interval": "sweep-interval",
		"log.level":                  "log-level",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}

	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config from %s: %w", loader.Path(), err)
	}

	srv, err := wireServer(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = srv.log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.run(ctx)
}

// run serves until ctx is done. Active sessions are completed and every
// connection is closed before it returns.
func (s *server) run(ctx context.Context) error {
	s.log.Info("starting",
		zap.String("addr", s.cfg.Addr()),
		zap.Duration("sweep_interval", s.sweeper.Interval()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.transport.ListenAndServe(gctx, s.cfg.Addr())
	})
	g.Go(func() error {
		return s.sweeper.Run(gctx)
	})

	start := time.Now()
	err := g.Wait()
	s.log.Info("shut down", zap.Duration("uptime", time.Since(start)), zap.Error(err))
	return err
}
