package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/delivery-scheduler-backend/api/routes"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/advance"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/availability"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/bookings"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/locations"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/postal"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/config"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/instance"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/metrics"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/migrate"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	schedulerTZ, err := cfg.Scheduler.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to resolve scheduler timezone", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	mx := metrics.NewAvailabilityMetrics(registry)

	rulesService, err := rules.NewService(rules.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create rules service", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedDefaults {
		seeded, err := rulesService.SeedDefaults(context.Background())
		if err != nil {
			logg.Error(context.Background(), "failed to seed default ruleset", err)
			os.Exit(1)
		}
		if seeded {
			logg.Info(context.Background(), "seeded default scheduling ruleset")
		}
	}

	postalService, err := postal.NewService(rulesService, logg, mx)
	if err != nil {
		logg.Error(context.Background(), "failed to create postal service", err)
		os.Exit(1)
	}

	locationsService, err := locations.NewService(locations.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create locations service", err)
		os.Exit(1)
	}

	evaluator, err := advance.NewEvaluator(cfg.Scheduler.GlobalRuleTieBreak, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create advance rule evaluator", err)
		os.Exit(1)
	}

	counter, err := bookings.NewRedisCounter(redisClient, cfg.Scheduler.CounterTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create slot counter", err)
		os.Exit(1)
	}

	engine, err := availability.NewEngine(availability.EngineOptions{
		Source:   rulesService,
		Counter:  counter,
		Location: schedulerTZ,
		Logger:   logg,
		Metrics:  mx,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create availability engine", err)
		os.Exit(1)
	}

	calendar, err := availability.NewCalendar(engine, evaluator, cfg.Scheduler.MaxRangeDays)
	if err != nil {
		logg.Error(context.Background(), "failed to create availability calendar", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"timezone": cfg.Scheduler.Timezone,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DBPinger:  dbClient,
			RedisP:    redisClient,
			Rules:     rulesService,
			Postal:    postalService,
			Locations: locationsService,
			Engine:    engine,
			Calendar:  calendar,
			Registry:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
