package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transportsystem/avganger/internal/api"
	"transportsystem/avganger/internal/common"
	"transportsystem/avganger/internal/config"
	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/db"
	"transportsystem/avganger/internal/db/repositories"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/metrics"
	"transportsystem/avganger/internal/routes"
	"transportsystem/avganger/internal/services"
	"transportsystem/avganger/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Avganger starting up",
		"environment", cfg.AppEnv,
		"backend", cfg.StoreBackend,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	st, journal, err := openStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer st.Close()

	repo := services.NewDepartureRepository(st, metricsReg)
	if err := repo.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to subscribe to %s store: %v", cfg.StoreBackend, err)
	}
	defer repo.Close()

	deps := api.InitDependencies(cfg, st, repo, journal, metricsReg)
	defer deps.Services.Cache.Close()

	router := routes.RegisterRoutes(deps, cfg)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server stopped with error", "error", err.Error())
		os.Exit(1)
	}
	logging.Info("Server stopped")
}

// openStore builds the configured remote store. The write journal is only
// available for the SQL backends.
func openStore(cfg *config.Config) (store.RemoteStore, *repositories.WriteJournalRepo, error) {
	switch constants.StoreBackend(cfg.StoreBackend) {
	case constants.StoreBackendRedis:
		client := common.NewRedisClient(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		return store.NewRedisStore(client, cfg.Redis.Key, cfg.Redis.Channel), nil, nil

	case constants.StoreBackendSQLite:
		orm, err := db.InitSQLiteORM(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(orm); err != nil {
			return nil, nil, err
		}
		sqlxDB, err := db.WrapORM(orm, "sqlite3")
		if err != nil {
			return nil, nil, err
		}
		sqlStore := store.NewSQLStore(cfg.StoreBackend, repositories.NewDepartureRepositoryGORM(orm), repositories.NewWriteJournalRepo(sqlxDB))
		return sqlStore, sqlStore.Journal(), nil

	case constants.StoreBackendPostgres:
		dsn := cfg.Postgres.DSN()
		orm, err := db.InitPostgresORM(dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(orm); err != nil {
			return nil, nil, err
		}
		// the journal runs on its own lib/pq pool
		sqlxDB, err := db.InitPostgres(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres (sqlx): %w", err)
		}
		logging.Info("Connected to Postgres (sqlx)")
		sqlStore := store.NewSQLStore(cfg.StoreBackend, repositories.NewDepartureRepositoryGORM(orm), repositories.NewWriteJournalRepo(sqlxDB))
		return sqlStore, sqlStore.Journal(), nil

	default:
		return store.NewMemoryStore(), nil, nil
	}
}
