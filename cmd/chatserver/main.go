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

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jackut/internal/auth"
	"jackut/internal/config"
	"jackut/internal/handlers/chatserver"
	appKafka "jackut/internal/kafka"
	kafkahandlers "jackut/internal/kafka/handlers"
	"jackut/internal/logger"
	appRedis "jackut/internal/redis"
	ws "jackut/internal/websocket"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat).With().Str("app", "chatserver").Logger()

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("chat server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisClient, err := appRedis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		blacklist = appRedis.NewRedisTokenBlacklist(redisClient)
	}

	hub := ws.NewHub(log)
	wsHandler := chatserver.NewWebSocketHandler(hub, cfg, blacklist, log)

	r := mux.NewRouter()
	r.HandleFunc(cfg.Server.WebSocketPath, wsHandler.ServeWS).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if cfg.Kafka.Enabled {
		consumer := appKafka.NewConfluentKafkaConsumer(cfg.Kafka, log)
		defer consumer.Close()
		notifications := kafkahandlers.NewNotificationHandler(hub, log)
		g.Go(func() error {
			return consumer.Consume(gctx, []string{cfg.Kafka.EventsTopic}, cfg.Kafka.ConsumerGroup, notifications.Handle)
		})
	} else {
		log.Warn().Msg("kafka disabled, no notifications will be pushed")
	}

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("path", cfg.Server.WebSocketPath).Msg("chat server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("chat server stopped")
	return nil
}
