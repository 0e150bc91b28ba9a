// Command mongoprobe counts documents in a set of collections through lazy,
// self-healing handles that share one client.
//
// Connection settings come from MONGODB_* environment variables (optionally
// read from .env files). The collections to probe come from a YAML manifest
// or, without one, from MONGODB_DATABASE and MONGODB_COLLECTION.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	driver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/activecollection/pkg/config"
	"github.com/dmitrymomot/activecollection/pkg/logger"
	"github.com/dmitrymomot/activecollection/pkg/mongo"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Service  string `env:"SERVICE_NAME" envDefault:"mongoprobe"`
	LogLevel string `env:"LOG_LEVEL"`
}

type runIDKey struct{}

var cli struct {
	EnvFile  []string      `name:"env-file" help:"Load variables from these .env files before reading the environment."`
	Manifest string        `type:"existingfile" help:"YAML manifest listing the collections to probe."`
	Rounds   int           `default:"1" help:"How many times to probe every collection."`
	Interval time.Duration `default:"5s" help:"Pause between rounds."`
	Timeout  time.Duration `default:"30s" help:"Overall deadline for the run."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("mongoprobe"),
		kong.Description("Count documents through self-healing MongoDB collection handles."),
		kong.DefaultEnvars("MONGOPROBE"),
	)

	if len(cli.EnvFile) > 0 {
		if err := config.LoadEnv(cli.EnvFile...); err != nil {
			slog.Error("failed to load env files", logger.Error(err))
			os.Exit(1)
		}
	}

	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, appCfg.Service),
		logger.WithLevelName(appCfg.LogLevel),
		logger.WithContextValue("run_id", runIDKey{}),
	)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cli.Timeout)
	defer cancel()
	ctx = context.WithValue(ctx, runIDKey{}, uuid.NewString())

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "probe failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var cfg mongo.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	var m manifest
	if cli.Manifest != "" {
		var err error
		if m, err = readManifest(cli.Manifest); err != nil {
			return err
		}
	}
	m, err := m.resolve(cfg.Database, cfg.Collection)
	if err != nil {
		return err
	}

	first, err := mongo.NewActiveCollection(cfg, m.Database, m.Collections[0].Name, mongo.WithLogger(log))
	if err != nil {
		return err
	}
	targets := make([]probeTarget, 0, len(m.Collections))
	targets = append(targets, probeTarget{handle: first, filter: m.Collections[0].filter()})

	// Siblings that redialed hold their own client, so every handle is closed.
	// Closing a client already released by another handle is a no-op.
	defer func() { closeAll(ctx, log, cfg.DisconnectTimeout, targets) }()

	// Resolve the first handle before deriving siblings so they share its client.
	if err := mongo.Healthcheck(first)(ctx); err != nil {
		return err
	}

	for _, ref := range m.Collections[1:] {
		h, err := first.WithCollection(ref.Name)
		if err != nil {
			return err
		}
		targets = append(targets, probeTarget{handle: h, filter: ref.filter()})
	}

	rounds := max(cli.Rounds, 1)
	var failed error
	for round := range rounds {
		if round > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(failed, ctx.Err())
			case <-time.After(cli.Interval):
			}
		}
		for _, t := range targets {
			failed = errors.Join(failed, probe(ctx, log, t))
		}
	}
	return failed
}

type probeTarget struct {
	handle *mongo.ActiveCollection
	filter any
}

func closeAll(ctx context.Context, log *slog.Logger, timeout time.Duration, targets []probeTarget) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	for _, t := range targets {
		if err := t.handle.Close(ctx); err != nil {
			log.WarnContext(ctx, "failed to disconnect", logger.Collection(t.handle.Name()), logger.Error(err))
		}
	}
}

func probe(ctx context.Context, log *slog.Logger, t probeTarget) error {
	start := time.Now()
	n, err := mongo.Execute(ctx, t.handle.Handle, func(ctx context.Context, coll *driver.Collection) (int64, error) {
		return coll.CountDocuments(ctx, t.filter)
	})
	attrs := []any{
		logger.Database(t.handle.DatabaseName()),
		logger.Collection(t.handle.Name()),
		logger.Duration(time.Since(start)),
	}
	if err != nil {
		log.ErrorContext(ctx, "count failed", append(attrs, logger.Error(err))...)
		return err
	}
	log.InfoContext(ctx, "counted documents", append(attrs, logger.Count(n))...)
	return nil
}
