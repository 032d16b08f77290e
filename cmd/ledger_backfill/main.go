// Command ledger_backfill recomputes periodic summaries from the
// transaction log and agent ledger.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/SscSPs/travel_ledger/internal/core/services"
	"github.com/SscSPs/travel_ledger/internal/middleware"
	"github.com/SscSPs/travel_ledger/internal/platform/config"
	"github.com/SscSPs/travel_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/travel_ledger/pkg/database"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

type options struct {
	agents      []string
	granularity domain.Granularity
	from        time.Time
	to          time.Time
}

func parseFlags(args []string) (options, error) {
	fs := pflag.NewFlagSet("ledger_backfill", pflag.ContinueOnError)
	agents := fs.StringSlice("agents", nil, "agent ids to rebuild (default: every agent with a ledger)")
	granularity := fs.String("granularity", string(domain.Daily), "daily or monthly")
	from := fs.String("from", "", "first day of the range (YYYY-MM-DD)")
	to := fs.String("to", "", "last day of the range (YYYY-MM-DD, default: --from)")
	fs.String("pgsql-url", "", "database URL (overrides PGSQL_URL)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if err := viper.BindPFlag("PGSQL_URL", fs.Lookup("pgsql-url")); err != nil {
		return options{}, err
	}

	opts := options{granularity: domain.Granularity(strings.ToLower(*granularity))}
	for _, a := range *agents {
		if a = strings.TrimSpace(a); a != "" {
			opts.agents = append(opts.agents, a)
		}
	}
	if !opts.granularity.Valid() {
		return options{}, fmt.Errorf("unknown granularity %q", *granularity)
	}

	var err error
	if opts.from, err = time.Parse(time.DateOnly, *from); err != nil {
		return options{}, fmt.Errorf("invalid --from: %w", err)
	}
	opts.to = opts.from
	if *to != "" {
		if opts.to, err = time.Parse(time.DateOnly, *to); err != nil {
			return options{}, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if opts.to.Before(opts.from) {
		return options{}, fmt.Errorf("--to %s is before --from %s", *to, *from)
	}
	return opts, nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		logger.Error("Invalid arguments", slog.String("error", err.Error()))
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool, logger)

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		database.ClosePgxPool(dbPool, logger)
		os.Exit(1)
	}

	// Rebuilds read what they write, so both go to the primary
	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool, nil), nil, nil)

	ctx = middleware.WithActor(middleware.WithLogger(ctx, logger), "ledger_backfill", "")
	rebuilt, err := container.Summaries.RebuildRange(ctx, opts.agents, opts.granularity, opts.from, opts.to)

	failures := multierr.Errors(err)
	for _, f := range failures {
		logger.Error("Period rebuild failed", slog.String("error", f.Error()))
	}
	logger.Info("Backfill finished",
		slog.String("granularity", string(opts.granularity)),
		slog.String("from", opts.from.Format(time.DateOnly)),
		slog.String("to", opts.to.Format(time.DateOnly)),
		slog.Int("rebuilt", rebuilt),
		slog.Int("failed", len(failures)))

	if len(failures) > 0 {
		database.ClosePgxPool(dbPool, logger)
		os.Exit(1)
	}
}
