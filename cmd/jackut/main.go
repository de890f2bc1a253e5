// Command jackut is the operator CLI: it runs acceptance scenarios against the core and
// inspects or manages the persisted system snapshot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jackut/internal/config"
	"jackut/internal/jackut"
	"jackut/internal/logger"
	"jackut/internal/services"
	"jackut/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "jackut",
		Short:        "Jackut operator tools",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (defaults to ./config/config.yaml or ./config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")

	root.AddCommand(
		newRunCmd(opts),
		newShowUserCmd(opts),
		newShowCommunityCmd(opts),
		newStatsCmd(opts),
		newResetCmd(opts),
	)
	return root
}

// env is everything a subcommand needs to talk to the core.
type env struct {
	cfg       config.Config
	log       zerolog.Logger
	snapshots storage.SnapshotStore
	svc       *services.Set
	facade    *jackut.Facade
	close     func()
}

func openEnv(ctx context.Context, opts *rootOptions) (*env, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log := logger.New(level, cfg.LogFormat)

	snapshots, closeSnapshots, err := storage.OpenSnapshotStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	svc := services.NewSet(storage.NewStore(), snapshots, nil, log, services.Options{Auth: cfg.Auth})
	return &env{cfg: cfg, log: log, snapshots: snapshots, svc: svc, facade: jackut.New(svc), close: closeSnapshots}, nil
}
