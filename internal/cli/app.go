package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/atelier/storefront/internal/infrastructure/db/mongo"
	"github.com/atelier/storefront/internal/pkg/config"
	"github.com/atelier/storefront/pkg/logger"
)

const disconnectTimeout = 5 * time.Second

// app holds what every command needs: configuration, logging and the
// Mongo-backed repositories.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *mongo.Client
	db     *mongo.Database

	users    *mongodb.UserRepository
	artworks *mongodb.ArtworkRepository
	favs     *mongodb.FavoriteRepository
	orders   *mongodb.OrderRepository
	events   *mongodb.SecurityEventRepository
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront",
		Env:     cfg.Env,
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		db:       db,
		users:    mongodb.NewUserRepository(db),
		artworks: mongodb.NewArtworkRepository(db),
		favs:     mongodb.NewFavoriteRepository(db),
		orders:   mongodb.NewOrderRepository(db),
		events:   mongodb.NewSecurityEventRepository(db),
	}, nil
}

func (a *app) ensureIndexes(ctx context.Context) error {
	return mongodb.EnsureIndexes(ctx, a.users, a.artworks, a.favs, a.orders, a.events)
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		a.log.Warn().Err(err).Msg("mongodb disconnect failed")
	}
}
