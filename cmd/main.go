package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facilitydesk/backend/internal/api/handler"
	"facilitydesk/backend/internal/complaint"
	"facilitydesk/backend/internal/config"
	"facilitydesk/backend/internal/hub"
	"facilitydesk/backend/internal/janitorial"
	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/mailer"
	"facilitydesk/backend/internal/notify"
	"facilitydesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := storage.Open(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		logger.Log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb, err := storage.OpenRedis(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to connect Redis: %v", err)
	}

	logger.Log.WithField("redis", rdb != nil).Info("database ready, migrations complete")
	return db, rdb
}

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.InitLogger("facilitydesk")
		logger.Log.Fatalf("Invalid configuration: %v", err)
	}
	logger.InitLogger(cfg.AppName)
	if envErr != nil {
		logger.Log.Debug("no .env file loaded")
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, rdb := setupDependencies(ctx, cfg)
	s := storage.NewStorageService(db, rdb)

	mail, err := mailer.New(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to configure email: %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	manager := hub.NewManager()
	g.Go(func() error {
		manager.Run(ctx)
		return nil
	})

	// With Redis every instance relays live notifications to its own clients.
	var live notify.Publisher = manager
	if rdb != nil {
		relay := hub.NewRelay(s, manager, config.NotifyChannel)
		live = relay
		g.Go(func() error {
			relay.Listen(ctx)
			return nil
		})
	}

	notifier := notify.NewService(s, mail, live, cfg.AppURL)
	var dispatcher notify.Dispatcher = notify.NewInline(notifier)
	if cfg.NotifyMode == config.NotifyQueue {
		dispatcher = notify.NewQueued(s, config.NotifyQueueKey, dispatcher)
		worker := notify.NewWorker(s, config.NotifyQueueKey, notifier)
		g.Go(func() error { return worker.Run(ctx) })
	}

	h := handler.NewHandler(s,
		complaint.NewService(s, dispatcher),
		janitorial.NewService(s, dispatcher),
		manager,
	)
	router := handler.NewRouter(h, cfg.JWTSecret)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         600,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g.Go(func() error {
		logger.Log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Error("server stopped with error")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Log.Info("shutdown complete")
}
