package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/xssguard/modules/comments"
	"github.com/dmitrymomot/xssguard/pkg/config"
	"github.com/dmitrymomot/xssguard/pkg/httpserver"
	"github.com/dmitrymomot/xssguard/pkg/logger"
	"github.com/dmitrymomot/xssguard/pkg/pg"
	"github.com/dmitrymomot/xssguard/pkg/reqscope"
	"github.com/dmitrymomot/xssguard/pkg/sanitizer"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Service  string `env:"APP_SERVICE" envDefault:"xssguard"`
	LogLevel string `env:"LOG_LEVEL"`
}

func main() {
	var (
		app    appConfig
		srvCfg httpserver.Config
		sanCfg sanitizer.Config
		pgCfg  pg.Config
	)
	config.MustLoad(&app)
	config.MustLoad(&srvCfg)
	config.MustLoad(&sanCfg)
	config.MustLoad(&pgCfg)

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Service),
		logger.WithLevelName(app.LogLevel),
		logger.WithContextExtractors(logger.RequestIDExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), log, srvCfg, sanCfg, pgCfg); err != nil {
		log.Error("xssguard stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, srvCfg httpserver.Config, sanCfg sanitizer.Config, pgCfg pg.Config) error {
	san, err := sanitizer.NewFromConfig(sanCfg, sanitizer.WithLogger(log))
	if err != nil {
		return err
	}
	sanitizer.SetDefault(san)

	checks := map[string]httpserver.Check{}
	var store comments.Storage = comments.NewMemoryStorage()

	if pgCfg.Enabled() {
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pg.Migrate(ctx, pool, comments.Migrations, comments.MigrationsDir, pgCfg, log); err != nil {
			return err
		}

		store = comments.NewPostgresStorage(pool)
		checks["postgres"] = pg.Healthcheck(pool)
	} else {
		log.Warn("PG_CONN_URL not set, comments are kept in memory", logger.Component("main"))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(reqscope.Middleware(log))

	r.Get("/health", httpserver.HealthCheckHandler(log, nil))
	r.Get("/ready", httpserver.HealthCheckHandler(log, checks))
	r.Mount("/comments", comments.NewService(store,
		comments.WithSanitizer(san),
		comments.WithLogger(log),
	).Handle())

	return httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(log)).Run(ctx, r)
}
