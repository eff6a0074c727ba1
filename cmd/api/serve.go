package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/medconnect-api/internal/cache"
	"github.com/harentsoaR/medconnect-api/internal/config"
	"github.com/harentsoaR/medconnect-api/internal/handlers"
	"github.com/harentsoaR/medconnect-api/internal/services"
	"github.com/harentsoaR/medconnect-api/internal/store"
	"github.com/harentsoaR/medconnect-api/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	client, db, err := openDatabase(cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to connect to MongoDB")
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	tokens, err := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}
	hasher := utils.NewPasswordHasher(cfg.BcryptCost)

	users := store.NewUserStore(db, useTransactions(context.Background(), cfg, db, log))
	doctors := store.NewDoctorStore(db)
	appointments := store.NewAppointmentStore(db)

	doctorCache := newDoctorCache(cfg, log)
	notifier := services.NewNotificationService(services.NotificationConfig{
		TextbeltKey: cfg.TextbeltAPIKey,
		TextbeltURL: cfg.TextbeltURL,
		SMTPHost:    cfg.SMTPHost,
		SMTPPort:    cfg.SMTPPort,
		SMTPUser:    cfg.SMTPUser,
		SMTPPass:    cfg.SMTPPass,
		SMTPFrom:    cfg.SMTPFrom,
	}, log)

	authSvc := services.NewAuthService(users, hasher, tokens, log)
	doctorSvc := services.NewDoctorService(doctors, users, doctorCache, log)
	appointmentSvc := services.NewAppointmentService(appointments, doctors, users, notifier, log)

	reminders, err := services.NewReminderJob(appointments, doctors, users, notifier, log).Schedule(cfg.ReminderSchedule)
	if err != nil {
		return err
	}
	reminders.Start()
	defer reminders.Stop()

	h := handlers.NewHandler(authSvc, doctorSvc, appointmentSvc, pinger(db), log, cfg.IsProduction())
	router := handlers.NewRouter(h, handlers.RouterConfig{
		Tokens:      tokens,
		Users:       users,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		log.WithError(err).Error("server failed")
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown failed")
		return err
	}
	log.Info("server stopped")
	return nil
}

// newDoctorCache returns a Redis-backed cache, or nil (no caching) when
// REDIS_URL is unset or unreachable.
func newDoctorCache(cfg *config.Config, log *logrus.Logger) services.DoctorCache {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, doctor cache disabled")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, doctor cache disabled")
		return nil
	}
	log.Info("connected to Redis")
	return cache.NewDoctorCache(client, cfg.CacheTTL, log)
}

func pinger(db *mongo.Database) handlers.Pinger {
	return func(ctx context.Context) error {
		return store.Ping(ctx, db)
	}
}
