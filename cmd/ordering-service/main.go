package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/novaasia/ordering-service/internal/config"
	"github.com/novaasia/ordering-service/internal/db"
	"github.com/novaasia/ordering-service/internal/discount"
	"github.com/novaasia/ordering-service/internal/handler"
	"github.com/novaasia/ordering-service/internal/notify"
	"github.com/novaasia/ordering-service/internal/order"
	"github.com/novaasia/ordering-service/internal/realtime"
	"github.com/novaasia/ordering-service/internal/review"
	"github.com/novaasia/ordering-service/internal/settings"
	"github.com/novaasia/ordering-service/internal/transport"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "ordering-service").Logger()

	log.Info().Msg("Ordering service starting...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	loc, err := time.LoadLocation(cfg.Store.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Store.Timezone).Msg("Failed to load store timezone")
	}

	database, err := db.New(context.Background(), cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	hub := realtime.NewHub()

	settingsRepo := settings.NewRepository(database.Pool)
	orderRepo := order.NewRepository(database.Pool, loc)
	discountRepo := discount.NewRepository(database.Pool)
	reviewRepo := review.NewRepository(database.Pool)

	orderSvc := order.NewService(orderRepo, settingsRepo, loc)
	discountSvc := discount.NewService(discountRepo)
	reviewSvc := review.NewService(reviewRepo)

	channels := []notify.Channel{notify.NewBroadcastChannel(hub)}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		channels = append(channels, notify.NewTelegramChannel(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
	} else {
		log.Warn().Msg("Telegram not configured, chat notifications disabled")
	}
	if cfg.SMTP.Username != "" && cfg.SMTP.Password != "" {
		channels = append(channels, notify.NewEmailChannel(cfg.SMTP, cfg.Store.Name))
	} else {
		log.Warn().Msg("SMTP not configured, email notifications disabled")
	}
	dispatcher := notify.NewDispatcher(cfg.Store.Name, channels...)

	router := transport.NewRouter(transport.Handlers{
		Order:    handler.NewOrderHandler(orderSvc, dispatcher, cfg.Store.PaymentBaseURL),
		Discount: handler.NewDiscountHandler(discountSvc),
		Settings: handler.NewSettingsHandler(settingsRepo, hub),
		Review:   handler.NewReviewHandler(reviewSvc),
		Events:   handler.NewEventsHandler(hub),
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // the event stream holds its connection open
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}

	log.Info().Msg("Ordering service stopped")
}
