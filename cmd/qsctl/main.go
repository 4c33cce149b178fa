/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// qsctl runs a CRUD round against the backend named in a queryset config
// file. It is a smoke-testing tool for wiring: it creates a few widgets,
// reads them back, destroys one and reports the per-item statuses.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suparena/queryset"
	"github.com/suparena/queryset/backend/dynamo"
	"github.com/suparena/queryset/backend/memory"
	"github.com/suparena/queryset/backend/mongo"
	qsredis "github.com/suparena/queryset/backend/redis"
	"github.com/suparena/queryset/config"
	"github.com/suparena/queryset/testmodels"
)

var (
	configPath  = flag.String("config", "", "Path to a queryset YAML config file")
	count       = flag.Int("count", 3, "Number of widgets to create")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
)

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		info := queryset.GetVersionInfo()
		fmt.Printf("qsctl version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*debug {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(log); err != nil {
		log.Error().Err(err).Msg("qsctl failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger) error {
	// A .env file is optional; explicit environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log.Info().Str("backend", cfg.Backend).Msg("configured backend")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, cleanup, err := buildBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	qs := queryset.New[*testmodels.Widget](backend, queryset.WithLogger(log))

	widgets := make([]*testmodels.Widget, 0, *count)
	for i := 0; i < *count; i++ {
		w := testmodels.NewWidget(fmt.Sprintf("widget-%d", i))
		w.Data = fmt.Sprintf("payload-%d", i)
		widgets = append(widgets, w)
	}

	results, err := qs.Create(ctx, widgets...)
	if err != nil {
		return err
	}
	report(log, "create", results)

	results, err = qs.Read(ctx)
	if err != nil {
		return err
	}
	report(log, "read_all", results)

	res, err := qs.DestroyOne(ctx, widgets[0].ID)
	if err != nil {
		return err
	}
	log.Info().Str("op", "destroy_one").Str("id", res.ID).Str("status", string(res.Status)).Msg("result")

	// The destroyed identifier must now read back as absent.
	results, err = qs.Read(ctx, widgets[0].ID, widgets[len(widgets)-1].ID)
	if err != nil {
		return err
	}
	report(log, "read_after_destroy", results)

	return nil
}

func report(log zerolog.Logger, op string, results []queryset.Result) {
	for i, res := range results {
		log.Info().
			Str("op", op).
			Int("index", i).
			Str("id", res.ID).
			Str("status", string(res.Status)).
			Msg("result")
	}
}

// buildBackend wires the backend handle named by the config. The returned
// cleanup closes whatever connection was opened.
func buildBackend(ctx context.Context, cfg *config.Config) (queryset.Backend[*testmodels.Widget], func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendMemory:
		store := memory.New[*testmodels.Widget]()
		applyCommon(cfg, store.WithIDField, store.WithUpdateCreatesMissing)
		return store, noop, nil

	case config.BackendMongo:
		client, err := mongodriver.Connect(ctx, mongooptions.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		store := mongo.New[*testmodels.Widget](coll)
		applyCommon(cfg, store.WithIDField, store.WithUpdateCreatesMissing)
		return store, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := qsredis.New[*testmodels.Widget](client, cfg.Redis.Hash)
		if cfg.Redis.Compress {
			store = store.WithCodec(qsredis.ZlibCodec())
		}
		applyCommon(cfg, store.WithIDField, store.WithUpdateCreatesMissing)
		return store, func() { _ = client.Close() }, nil

	case config.BackendDynamo:
		client, err := dynamo.NewClient(cfg.Dynamo.AccessKey, cfg.Dynamo.SecretKey, cfg.Dynamo.Region)
		if err != nil {
			return nil, nil, err
		}
		store := dynamo.New[*testmodels.Widget](client, cfg.Dynamo.Table)
		applyCommon(cfg, store.WithIDField, store.WithUpdateCreatesMissing)
		return store, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// applyCommon forwards the backend-agnostic options shared by every store.
func applyCommon[S any](cfg *config.Config, withIDField func(string) S, withUpdateCreatesMissing func(bool) S) {
	if cfg.IDField != "" {
		withIDField(cfg.IDField)
	}
	if cfg.UpdateCreatesMissing != nil {
		withUpdateCreatesMissing(*cfg.UpdateCreatesMissing)
	}
}
