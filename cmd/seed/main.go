// Command seed prepares a fresh MongoDB database: it creates the indexes the
// repositories rely on and registers the first Management actor.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/service"
	"github.com/epicevents/crm/internal/infrastructure/config"
	"github.com/epicevents/crm/internal/infrastructure/credentials"
	mongostore "github.com/epicevents/crm/internal/infrastructure/db/mongo"
	"github.com/epicevents/crm/pkg/logger"
)

type seedConfig struct {
	Username    string `env:"SEED_USERNAME, required"`
	Password    string `env:"SEED_PASSWORD, required"`
	Email       string `env:"SEED_EMAIL,    required"`
	DisplayName string `env:"SEED_NAME,     default=Administrator"`
	BcryptCost  int    `env:"BCRYPT_COST,   default=10"`
	LogLevel    string `env:"LOG_LEVEL,     default=info"`

	Mongo config.MongoConfig
}

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log := logger.Init(logger.Options{Component: "seed"})
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Component: "seed"})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Error().Err(err).Msg("failed to create indexes")
		os.Exit(1)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ready")

	actors := mongostore.NewActorRepository(db)
	svc := service.NewActorService(
		service.Deps{Actors: actors},
		credentials.NewBcryptStore(actors, cfg.BcryptCost),
		log,
	)

	actor, err := svc.Bootstrap(ctx, ports.CreateActorInput{
		Username:    cfg.Username,
		Email:       cfg.Email,
		DisplayName: cfg.DisplayName,
		Password:    cfg.Password,
	})
	switch {
	case errors.Is(err, domain.ErrActorExists):
		log.Info().Msg("a management actor already exists, skipping")
	case err != nil:
		log.Error().Err(err).Msg("failed to create management actor")
		os.Exit(1)
	default:
		log.Info().Str("actor_id", actor.ID).Str("username", actor.Username).Msg("management actor created")
	}
}
