package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/zerolog"

	"jackut/internal/auth"
	"jackut/internal/config"
	"jackut/internal/events"
	apihandlers "jackut/internal/handlers/apiserver"
	"jackut/internal/jobs"
	appKafka "jackut/internal/kafka"
	"jackut/internal/logger"
	appRedis "jackut/internal/redis"
	"jackut/internal/services"
	"jackut/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat).With().Str("app", "apiserver").Logger()

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots, closeSnapshots, err := storage.OpenSnapshotStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer closeSnapshots()
	log.Info().Str("type", cfg.Storage.Type).Msg("snapshot store ready")

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisClient, err := appRedis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		blacklist = appRedis.NewRedisTokenBlacklist(redisClient)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis token blacklist enabled")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := appKafka.NewConfluentKafkaProducer(cfg.Kafka, log)
		if err != nil {
			return err
		}
		defer producer.Close()
		publisher = appKafka.NewEventPublisher(producer, cfg.Kafka.EventsTopic)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.EventsTopic).Msg("kafka event publishing enabled")
	}

	svc := services.NewSet(storage.NewStore(), snapshots, publisher, log, services.Options{
		Auth:      cfg.Auth,
		Blacklist: blacklist,
	})

	if cfg.Autosave.LoadOnStart {
		if err := svc.System.Load(ctx); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	}

	var autosave *jobs.Autosave
	if cfg.Autosave.Enabled {
		autosave = jobs.NewAutosave(svc.System, cfg.Autosave.Schedule, log)
		if err := autosave.Start(); err != nil {
			return fmt.Errorf("start autosave: %w", err)
		}
	}

	router := apihandlers.NewRouter(svc, cfg.Admin.Token, log)

	corsOptions := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.APIServer.CORS.AllowedOrigins),
		handlers.AllowedMethods(cfg.APIServer.CORS.AllowedMethods),
		handlers.AllowedHeaders(cfg.APIServer.CORS.AllowedHeaders),
		handlers.ExposedHeaders(cfg.APIServer.CORS.ExposedHeaders),
		handlers.MaxAge(cfg.APIServer.CORS.MaxAge),
	}
	if cfg.APIServer.CORS.AllowCredentials {
		corsOptions = append(corsOptions, handlers.AllowCredentials())
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.APIServer.Host, cfg.APIServer.Port),
		Handler:      handlers.CORS(corsOptions...)(router),
		ReadTimeout:  cfg.APIServer.ReadTimeout,
		WriteTimeout: cfg.APIServer.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("api server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced api server shutdown")
	}
	if autosave != nil {
		autosave.Stop(shutdownCtx)
		// last save so nothing since the previous tick is lost
		if err := svc.System.Save(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("final save failed")
		}
	}
	log.Info().Msg("api server stopped")
	return nil
}
