// Package cli provides the command-line interface of dsxplorer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sgaunet/dsxplorer/pkg/config"
)

// ErrMissingConfig is returned by the commands that need a configuration file
// when none is given.
var ErrMissingConfig = errors.New("configuration file not provided")

// Version is set by the main package.
var Version = "development"

// options are the global flags.
type options struct {
	cfgFile  string
	logLevel string
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "dsxplorer",
		Short: "Browse the datasets stored in an S3 bucket",
		Long: `dsxplorer browses the datasets stored in an S3 bucket.

Datasets are laid out as global/datasets/<name>/ or
<type>/<scope>/datasets/<name>/ and addressed with URIs such as
s3://bucket/private/jdoe/datasets/notes/raw/a.csv.

The web interface is started with "serve", the terminal interface with
"browse".`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "f", "", "Configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level overriding the configuration (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newBrowseCmd(opts),
		newLsCmd(opts),
		newDecodeCmd(),
		newUploadCmd(opts),
		newSyncCmd(opts),
		newMigrateCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	SetupCloseHandler(ctx, cancelFunc, slog.New(slog.DiscardHandler))

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		return 1
	}
	return 0
}

// load reads the configuration file and initializes the logger.
func (o *options) load() (config.Config, *slog.Logger, error) {
	if o.cfgFile == "" {
		return config.Config{}, nil, ErrMissingConfig
	}
	cfg, err := config.ReadYamlCnxFile(o.cfgFile)
	if err != nil {
		return cfg, nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, InitTrace(cfg.LogLevel), nil
}

// SetupCloseHandler cancels the context on SIGTERM/SIGINT.
func SetupCloseHandler(ctx context.Context, cancelFunc context.CancelFunc, log *slog.Logger) {
	c := make(chan os.Signal, 5)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		select {
		case s := <-c:
			log.Info("signal received", slog.String("signal", s.String()))
			cancelFunc()
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()
}

// InitTrace initializes the logger
func InitTrace(debugLevel string) *slog.Logger {
	handlerOptions := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}

	switch debugLevel {
	case "debug":
		handlerOptions.Level = slog.LevelDebug
		handlerOptions.AddSource = true
	case "info":
		handlerOptions.Level = slog.LevelInfo
	case "warn":
		handlerOptions.Level = slog.LevelWarn
	case "error":
		handlerOptions.Level = slog.LevelError
	default:
		handlerOptions.Level = slog.LevelInfo
	}

	// logs go to stderr, stdout carries the command output
	handler := slog.NewTextHandler(os.Stderr, handlerOptions)
	return slog.New(handler)
}
