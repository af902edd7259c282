// Command crm is the Epic Events CRM command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epicevents/crm/internal/cli"
	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/ownership"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/service"
	"github.com/epicevents/crm/internal/core/session"
	"github.com/epicevents/crm/internal/infrastructure/config"
	"github.com/epicevents/crm/internal/infrastructure/credentials"
	mongostore "github.com/epicevents/crm/internal/infrastructure/db/mongo"
	redisstore "github.com/epicevents/crm/internal/infrastructure/db/redis"
	"github.com/epicevents/crm/internal/infrastructure/health"
	"github.com/epicevents/crm/internal/metrics"
	"github.com/epicevents/crm/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional.
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return cli.ExitInternal
	}

	log := logger.Init(logger.Options{
		Level:     cfg.LogLevel,
		Pretty:    cfg.LogPretty,
		Component: "crm",
	})

	tokenPath, err := cfg.TokenPath()
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve token file")
		return cli.ExitInternal
	}
	tokens := cli.NewTokenFile(tokenPath)

	guard, redisProbe, closeRedis := loginGuard(ctx, cfg, log)
	defer closeRedis()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	var app *cli.App
	if connErr := err; connErr != nil {
		log.Error().Err(connErr).Msg("failed to connect to mongodb")
		checker := health.NewChecker(0).
			Add("mongodb", func(context.Context) error { return connErr }).
			Add("redis", redisProbe)
		app = cli.New(cli.Services{Health: checker}, tokens, log, cli.WithStorageUnavailable(connErr))
	} else {
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn().Err(err).Msg("failed to disconnect from mongodb")
			}
		}()

		issuer, err := session.NewIssuer([]byte(cfg.Session.Secret), cfg.Session.TTL)
		if err != nil {
			log.Error().Err(err).Msg("failed to create session issuer")
			return cli.ExitInternal
		}
		svc := services(db, cfg, guard, issuer, log)
		svc.Health = health.NewChecker(0).
			Add("mongodb", health.MongoProbe(db)).
			Add("redis", redisProbe)
		app = cli.New(svc, tokens, log)
	}

	code := app.Run(ctx, os.Args[1:])

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Warn().Err(err).Str("path", cfg.MetricsTextfile).Msg("failed to write metrics textfile")
		}
	}
	return code
}

// services wires the use cases over the MongoDB repositories.
func services(db *mongo.Database, cfg *config.Config, guard ports.LoginGuard, issuer *session.Issuer, log zerolog.Logger) cli.Services {
	actors := mongostore.NewActorRepository(db)
	accounts := mongostore.NewAccountRepository(db)
	contracts := mongostore.NewContractRepository(db)
	events := mongostore.NewEventRepository(db)
	creds := credentials.NewBcryptStore(actors, cfg.Session.BcryptCost)

	deps := service.Deps{
		Actors:     actors,
		Accounts:   accounts,
		Contracts:  contracts,
		Events:     events,
		Authorizer: service.NewAuthorizer(authz.Default(), ownership.NewResolver(accounts, contracts, events), log),
	}
	return cli.Services{
		Auth:      service.NewAuthService(actors, creds, guard, issuer, log),
		Actors:    service.NewActorService(deps, creds, log),
		Accounts:  service.NewAccountService(deps, log),
		Contracts: service.NewContractService(deps, log),
		Events:    service.NewEventService(deps, log),
	}
}

// loginGuard connects to Redis when configured. An unreachable Redis leaves
// lockout disabled and reports the failure through the health probe.
func loginGuard(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.LoginGuard, health.Probe, func()) {
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login lockout disabled")
		return nil, func(context.Context) error { return err }, func() {}
	}
	if rdb == nil {
		return nil, nil, func() {}
	}
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	guard := redisstore.NewLoginGuard(rdb, cfg.Redis.LockThreshold, cfg.Redis.LockTTL)
	return guard, health.RedisProbe(rdb), closeFn
}
