package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/orgball2608/insta-profile-viewer/internal/api"
	"github.com/orgball2608/insta-profile-viewer/internal/deeplink"
	"github.com/orgball2608/insta-profile-viewer/internal/instagram"
	"github.com/orgball2608/insta-profile-viewer/internal/instagram/instagramimpl"
	"github.com/orgball2608/insta-profile-viewer/internal/janitor"
	_ "github.com/orgball2608/insta-profile-viewer/internal/migrations"
	"github.com/orgball2608/insta-profile-viewer/internal/ratelimit"
	repositories "github.com/orgball2608/insta-profile-viewer/internal/repositories/fx"
	"github.com/orgball2608/insta-profile-viewer/internal/session"
	"github.com/orgball2608/insta-profile-viewer/pkg/config"
	"github.com/orgball2608/insta-profile-viewer/pkg/logger"
	"github.com/orgball2608/insta-profile-viewer/pkg/pgx"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	fx.Provide(
		fx.Annotate(
			func(cfg *config.Config) *ratelimit.KeyedLimiter {
				return ratelimit.NewKeyedLimiter(cfg.Instagram.RequestsPerMinute, time.Minute, 3)
			},
			fx.As(new(ratelimit.Limiter)),
		),
		fx.Annotate(
			instagramimpl.New,
			fx.As(new(instagram.Client)),
		),
		fx.Annotate(
			deeplink.NewKVInbox,
			fx.As(new(deeplink.Inbox)),
		),
		session.New,
		api.New,
	),
	repositories.Module,
	fx.Invoke(
		func(c *config.Config) error {
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}

			db, err := sql.Open("postgres",
				fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s ",
					c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
				),
			)
			if err != nil {
				return err
			}
			defer db.Close()

			return goose.Up(db, ".")
		}),
	fx.Invoke(janitor.Register),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, srv *api.Server,
	sess *session.Session, inbox deeplink.Inbox) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg, srv)

			// Load the saved/history snapshots before the first fetch.
			sess.RefreshLists(context.Background())

			// A share action may have left a pending username behind while
			// the app was not running.
			if name, ok := deeplink.Consume(context.Background(), inbox, time.Now()); ok {
				go func() {
					if err := sess.Ingest(context.Background(), name, time.Now()); err != nil {
						log.Error("Handoff fetch failed", "username", name, "error", err)
					}
				}()
			}

			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config, srv *api.Server) {
	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), srv.Routes()); err != nil {
		log.Error("Server failed to start", "error", err)
	}
}
