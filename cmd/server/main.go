package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hahacafe/coffee-shop/internal/config"
	"github.com/hahacafe/coffee-shop/internal/handlers"
	"github.com/hahacafe/coffee-shop/internal/handlers/cart"
	"github.com/hahacafe/coffee-shop/internal/handlers/order"
	"github.com/hahacafe/coffee-shop/internal/logging"
	"github.com/hahacafe/coffee-shop/internal/mail"
	"github.com/hahacafe/coffee-shop/internal/mykafka"
	"github.com/hahacafe/coffee-shop/internal/service/search"
	httpserver "github.com/hahacafe/coffee-shop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	searchService, err := search.NewService(db, configuration.ES_URL, configuration.ES_USER, configuration.ES_PASSWORD, "product")
	if err != nil {
		log.Fatalf("search init error: %v", err)
	}

	var mailer mail.Mailer
	if configuration.SMTP_HOST != "" {
		mailer = mail.NewSMTP(
			configuration.SMTP_HOST,
			configuration.SMTP_PORT,
			configuration.SMTP_USER,
			configuration.SMTP_PASSWORD,
			configuration.MAIL_FROM,
		)
	} else {
		mailer = &mail.LogMailer{Log: logger}
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		DB:             db,
		JWTSecret:      jwtSecret,
		AuthHandler:    &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, Producer: prod, Mailer: mailer},
		ProductHandler: &handlers.ProductHandler{DB: db},
		SearchHandler:  &handlers.SearchHandler{Service: searchService},
		CartHandler:    &cart.CartHandler{DB: db, Producer: prod},
		OrderHandler:   &order.OrderHandler{DB: db, Producer: prod},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db handle error", "error", err)
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
