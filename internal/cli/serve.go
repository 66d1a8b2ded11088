package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/atelier/storefront/internal/api"
	"github.com/atelier/storefront/internal/api/handler"
	"github.com/atelier/storefront/internal/api/session"
	"github.com/atelier/storefront/internal/core/ports"
	"github.com/atelier/storefront/internal/core/service"
	redisdb "github.com/atelier/storefront/internal/infrastructure/db/redis"
	"github.com/atelier/storefront/internal/infrastructure/queue"
	"github.com/atelier/storefront/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureIndexes(ctx); err != nil {
		return err
	}

	checks := map[string]handler.DependencyCheck{"mongodb": handler.MongoCheck(a.db)}

	var (
		store ports.SessionStore
		views ports.RecentViewStore
	)
	switch a.cfg.Session.Driver {
	case "memory":
		a.log.Warn().Msg("using in-memory sessions; recent views are disabled")
		store = session.NewMemoryStore()
	default:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				a.log.Warn().Err(err).Msg("redis close failed")
			}
		}()
		a.log.Info().Str("addr", a.cfg.Redis.Addr).Msg("connected to redis")

		store = redisdb.NewSessionStore(rdb)
		views = redisdb.NewRecentViews(rdb)
		checks["redis"] = handler.RedisCheck(rdb)
	}

	dispatcher := queue.NewDispatcher(a.cfg.Audit.Workers, a.events, logger.Component("audit"))
	dispatcher.Start(ctx)

	sessions := session.NewManager(store, session.Options{
		CookieName: a.cfg.Session.Cookie,
		Secret:     a.cfg.Session.Secret,
		TTL:        a.cfg.Session.TTL,
		Secure:     a.cfg.Session.Secure,
	}, logger.Component("session"))

	svcLog := logger.Component("service")
	e := api.NewRouter(api.Dependencies{
		Log:                logger.Component("http"),
		Sessions:           sessions,
		Users:              a.users,
		Auditor:            dispatcher,
		AuthService:        service.NewAuthService(a.users, svcLog),
		ArtworkService:     service.NewArtworkService(a.artworks, views, svcLog),
		AccountService:     service.NewAccountService(a.favs, a.artworks, views, a.orders, svcLog),
		OrderService:       service.NewOrderService(a.orders, a.artworks, svcLog),
		UserService:        service.NewUserService(a.users, dispatcher, svcLog),
		DashboardService:   service.NewDashboardService(a.users, a.artworks, a.orders, a.events),
		HealthChecks:       checks,
		LoginRatePerMinute: a.cfg.Login.Rate,
		LoginBurst:         a.cfg.Login.Burst,
	})

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Str("url", a.cfg.AppURL).Msg("http server listening")
		if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			dispatcher.Close()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("http server shutdown failed")
	}
	dispatcher.Close()
	a.log.Info().Msg("audit dispatcher drained")
	return nil
}
