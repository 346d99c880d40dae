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
	segmentio "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	httpHandlers "github.com/reybrally/product-composite-service/internal/adapters/http/handlers"
	kaf "github.com/reybrally/product-composite-service/internal/adapters/kafka"
	"github.com/reybrally/product-composite-service/internal/clients"
	"github.com/reybrally/product-composite-service/internal/composite"
	"github.com/reybrally/product-composite-service/internal/config"
	"github.com/reybrally/product-composite-service/internal/logging"
	"github.com/reybrally/product-composite-service/internal/publisher"
)

func main() {
	cfg := config.Load()
	logging.InitLogger()
	logging.LogInfo("starting product-composite", logrus.Fields{
		"pid":  os.Getpid(),
		"port": cfg.HTTP.Port,
	})

	prod, err := kaf.NewProducer(kaf.ProducerConfig{
		Brokers:                cfg.Kafka.Brokers,
		ClientID:               "product-composite",
		RequiredAcks:           segmentio.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	})
	if err != nil {
		logging.LogError("kafka producer init failed", err, logrus.Fields{"brokers": cfg.Kafka.Brokers})
		os.Exit(1)
	}
	defer prod.Close()

	pub := publisher.New(prod, publisher.Config{
		PoolSize:   cfg.Publisher.PoolSize,
		QueueDepth: cfg.Publisher.QueueDepth,
	}, "product-composite")
	defer pub.Close()

	svc := composite.NewService(
		clients.NewProductClient(cfg.Downstream.ProductServiceURL, cfg.Downstream.Timeout),
		clients.NewRecommendationClient(cfg.Downstream.RecommendationServiceURL, cfg.Downstream.Timeout),
		clients.NewReviewClient(cfg.Downstream.ReviewServiceURL, cfg.Downstream.Timeout),
		pub,
		composite.Topics{
			Products:        cfg.Kafka.ProductsTopic,
			Recommendations: cfg.Kafka.RecommendationsTopic,
			Reviews:         cfg.Kafka.ReviewsTopic,
		},
		config.ServiceAddress(cfg.HTTP.Port),
	)
	h := httpHandlers.NewCompositeHandlers(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.StripSlashes, middleware.Timeout(15*time.Second))
	r.Get("/health", httpHandlers.NewHealthHandler("product-composite"))
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

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logging.LogError("http server shutdown failed", err, logrus.Fields{})
	} else {
		logging.LogInfo("http server shutdown complete", logrus.Fields{})
	}

	if err := pub.Close(); err != nil {
		logging.LogError("publisher close failed", err, logrus.Fields{})
	}
	logging.LogInfo("bye", logrus.Fields{})
}
