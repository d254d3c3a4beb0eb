package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/auth"
	"github.com/junaidrashid-git/autoparts-api/checkout"
	"github.com/junaidrashid-git/autoparts-api/config"
	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/logger"
	"github.com/junaidrashid-git/autoparts-api/metrics"
	"github.com/junaidrashid-git/autoparts-api/middleware"
	"github.com/junaidrashid-git/autoparts-api/payment"
	"github.com/junaidrashid-git/autoparts-api/routes"
	"github.com/junaidrashid-git/autoparts-api/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup(cfg.LogLevel)
	log.Info("Starting application...")

	db, err := store.Open(cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("DB connection failed")
	}
	if err := store.Migrate(db); err != nil {
		log.WithError(err).Fatal("AutoMigrate failed")
	}

	// Status changes always reach in-process watchers; Kafka is optional.
	hub := events.NewHub()
	publisher := events.Multi{hub}
	var kafka *events.KafkaPublisher
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafka = events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		publisher = append(publisher, kafka)
		log.WithFields(log.Fields{"brokers": brokers, "topic": cfg.KafkaTopic}).Info("Publishing order events to Kafka")
	}

	st := store.New(db, publisher)

	var verifier auth.IDTokenVerifier = auth.DisabledVerifier{}
	if fb, err := auth.NewFirebaseVerifier(context.Background(), cfg.FirebaseProjectID, cfg.FirebaseCredentialsJSON); err != nil {
		log.WithError(err).Warn("Google sign-in disabled")
	} else {
		verifier = fb
	}

	if cfg.PayPalClientID == "" {
		log.Warn("PAYPAL_CLIENT_ID not set, card checkout will fail")
	}
	paypal := payment.NewPayPal(payment.PayPalConfig{
		BaseURL:      cfg.PayPalBaseURL,
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
		Timeout:      cfg.PayPalTimeout,
	})

	assembler := checkout.NewAssembler(
		checkout.NewDiscountResolver(st),
		checkout.NewReferralResolver(st),
		st,
		publisher,
	)
	watcher := checkout.NewWatcher(st, hub, cfg.WatchTimeout)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), metrics.PrometheusMiddleware())
	router.MaxMultipartMemory = 32 << 20
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.SetupRoutes(router, routes.Deps{
		Store:           st,
		Tokens:          auth.NewTokens(cfg.JWTSecret),
		Verifier:        verifier,
		Assembler:       assembler,
		Watcher:         watcher,
		Hub:             hub,
		Payments:        paypal,
		AdminAPIKey:     cfg.AdminAPIKey,
		SuperAdminEmail: cfg.SuperAdminEmail,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.Port).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}

	if kafka != nil {
		if err := kafka.Close(); err != nil {
			log.WithError(err).Warn("Kafka writer close failed")
		}
	}
	if sqlDB, err := st.DB().DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server stopped")
}
