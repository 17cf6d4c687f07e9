package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgaunet/dsxplorer/pkg/app"
	"github.com/sgaunet/dsxplorer/pkg/health"
	"github.com/sgaunet/dsxplorer/pkg/scanner"
	"github.com/sgaunet/dsxplorer/pkg/scheduler"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx := cmd.Context()

			svc, err := newServices(ctx, cfg, log, true)
			if err != nil {
				return err
			}
			defer svc.close()

			deps := app.Deps{
				Lister:  svc.lister(),
				Catalog: svc.datasets(),
			}
			if svc.s3 != nil {
				deps.Files = svc.s3
				deps.Monitors = append(deps.Monitors, health.NewMonitor("bucket", svc.s3.CheckBucket))
			}
			if svc.catalog != nil {
				deps.Recorder = svc.catalog
				deps.Monitors = append(deps.Monitors, health.NewMonitor("catalog", svc.catalog.Ping))
			}
			for _, m := range deps.Monitors {
				m.SetLogger(log)
				m.Start(ctx)
				defer m.Stop()
			}

			if svc.catalog != nil {
				scan := scanner.NewService(cfg.Scan, svc.s3, svc.catalog)
				scan.SetLogger(log)
				sched := scheduler.NewScheduler(cfg.Scan, scan)
				sched.SetLogger(log)
				if err := sched.Start(ctx); err != nil {
					return err
				}
				defer sched.Stop()
			}

			s, err := app.NewApp(cfg, deps)
			if err != nil {
				return fmt.Errorf("error creating the app: %w", err)
			}
			s.SetLogger(log)
			return run(ctx, s, log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address overriding the configuration")
	return cmd
}

// server is the part of app.App driven by run.
type server interface {
	Start(ctx context.Context) error
	StopServer(ctx context.Context) error
}

// run serves until ctx is cancelled or the server fails.
func run(ctx context.Context, s server, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("stop the server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stopErr := s.StopServer(shutdownCtx)
	if err := <-errCh; err != nil {
		return errors.Join(err, stopErr)
	}
	return stopErr
}
