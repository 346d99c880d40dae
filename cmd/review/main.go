package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	segmentio "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	httpHandlers "github.com/reybrally/product-composite-service/internal/adapters/http/handlers"
	kaf "github.com/reybrally/product-composite-service/internal/adapters/kafka"
	repoPkg "github.com/reybrally/product-composite-service/internal/adapters/repo"
	"github.com/reybrally/product-composite-service/internal/config"
	"github.com/reybrally/product-composite-service/internal/consumer"
	"github.com/reybrally/product-composite-service/internal/logging"
	svcPkg "github.com/reybrally/product-composite-service/internal/services"
)

func main() {
	cfg := config.Load()
	logging.InitLogger()
	logging.LogInfo("starting review-service", logrus.Fields{
		"pid":  os.Getpid(),
		"port": cfg.HTTP.Port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := mustPG(ctx, cfg)
	defer pool.Close()

	repo := repoPkg.NewReviewRepo(pool)
	svc := svcPkg.NewReviewService(repo, config.ServiceAddress(cfg.HTTP.Port))
	h := httpHandlers.NewReviewHandlers(svc)
	processor := consumer.NewReviewProcessor(svc)

	cons := kaf.NewConsumer(kaf.ConsumerConfig{
		Brokers:           cfg.Kafka.Brokers,
		ClientID:          "review-service",
		MinBytes:          1 << 10,
		MaxBytes:          10 << 20,
		MaxWait:           100 * time.Millisecond,
		SessionTimeout:    10 * time.Second,
		RebalanceTimeout:  10 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		StartOffset:       segmentio.FirstOffset,
		MaxRetries:        5,
		Backoff:           200 * time.Millisecond,
	})

	go func() {
		group := cfg.Kafka.Group
		if group == "" {
			group = "review-service"
		}
		logging.LogInfo("kafka consumer subscribing", logrus.Fields{
			"topic": cfg.Kafka.ReviewsTopic, "group": group, "brokers": cfg.Kafka.Brokers,
		})
		if err := cons.Subscribe(ctx, cfg.Kafka.ReviewsTopic, group, processor.Handle); err != nil {
			logging.LogError("kafka consumer stopped", err, logrus.Fields{
				"topic": cfg.Kafka.ReviewsTopic, "group": group,
			})
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.StripSlashes, middleware.Timeout(5*time.Second))
	r.Get("/health", httpHandlers.NewHealthHandler("review-service"))
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			logging.LogError("readiness: db not ready", err, logrus.Fields{})
			http.Error(w, "db not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Group(h.Routes)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.LogInfo("http server listening", logrus.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.LogError("http server ListenAndServe failed", err, logrus.Fields{"addr": srv.Addr})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logging.LogInfo("shutdown signal received", logrus.Fields{"signal": sig.String()})

	cancel()
	if err := cons.Close(); err != nil {
		logging.LogError("kafka consumer close failed", err, logrus.Fields{})
	}

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logging.LogError("http server shutdown failed", err, logrus.Fields{})
	} else {
		logging.LogInfo("http server shutdown complete", logrus.Fields{})
	}
	logging.LogInfo("bye", logrus.Fields{})
}

func mustPG(ctx context.Context, cfg config.Config) *pgxpool.Pool {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://" + cfg.DB.User + ":" + cfg.DB.Password + "@" +
			cfg.DB.Host + ":" + cfg.DB.Port + "/" + cfg.DB.Name + "?sslmode=" + cfg.DB.SSLMode
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logging.LogError("pgxpool init failed", err, logrus.Fields{})
		os.Exit(1)
	}
	if err := pool.Ping(ctx); err != nil {
		logging.LogError("postgres ping failed", err, logrus.Fields{})
		os.Exit(1)
	}
	logging.LogInfo("postgres connected", logrus.Fields{"db": cfg.DB.Name})
	return pool
}
