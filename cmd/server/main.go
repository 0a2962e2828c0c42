package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/electrohub/backend/internal/config"
	"github.com/electrohub/backend/internal/es"
	"github.com/electrohub/backend/internal/handlers"
	"github.com/electrohub/backend/internal/handlers/cart"
	"github.com/electrohub/backend/internal/logging"
	"github.com/electrohub/backend/internal/mailer"
	"github.com/electrohub/backend/internal/metrics"
	"github.com/electrohub/backend/internal/mykafka"
	"github.com/electrohub/backend/internal/service/order"
	"github.com/electrohub/backend/internal/service/token"
	transport "github.com/electrohub/backend/internal/transport/http"
	"github.com/electrohub/backend/internal/validate"
)

const productIndex = "products"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LOG_LEVEL)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("init database", "error", err)
		os.Exit(1)
	}

	var m *metrics.Metrics
	if cfg.OTLP_ENDPOINT != "" {
		var provider *sdkmetric.MeterProvider
		m, provider, err = metrics.Init(ctx, cfg)
		if err != nil {
			logger.Error("init metrics", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				logger.Error("meter provider shutdown", "error", err)
			}
		}()
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error("kafka close", "error", err)
			}
		}()
	}

	searchHandler := &handlers.SearchHandler{Index: productIndex}
	if cfg.ES_URL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			logger.Error("init elasticsearch", "error", err)
			os.Exit(1)
		}
		searchHandler.ES = client
	}

	var ml *mailer.Mailer
	if cfg.SMTP_HOST != "" {
		ml = &mailer.Mailer{
			Host:     cfg.SMTP_HOST,
			Port:     cfg.SMTP_PORT,
			Username: cfg.SMTP_USER,
			Password: cfg.SMTP_PASSWORD,
			From:     cfg.SMTP_FROM,
			BaseURL:  cfg.BASE_URL,
		}
	}

	tokenService := &token.TokenService{
		DB:            db,
		JWTSecret:     []byte(cfg.JWT_SECRET),
		RefreshSecret: []byte(cfg.REFRESH_SECRET),
	}
	orderSvc := &order.Service{DB: db}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Validator = validate.New()

	transport.Register(e, &transport.Deps{
		DB:           db,
		TokenService: tokenService,
		Auth: &handlers.AuthHandler{
			DB:            db,
			JWTSecret:     []byte(cfg.JWT_SECRET),
			RefreshSecret: []byte(cfg.REFRESH_SECRET),
			Producer:      producer,
			Mailer:        ml,
		},
		Product: &handlers.ProductHandler{
			DB:       db,
			Producer: producer,
			ES:       searchHandler.ES,
			Index:    productIndex,
			Metrics:  m,
		},
		Cart: &cart.CartHandler{DB: db, Producer: producer},
		Order: &handlers.OrderHandler{
			DB:       db,
			Svc:      orderSvc,
			Producer: producer,
			Mailer:   ml,
			Metrics:  m,
		},
		Admin:   &handlers.AdminHandler{DB: db, Svc: orderSvc, Mailer: ml},
		Search:  searchHandler,
		Support: &handlers.SupportHandler{DB: db, Producer: producer},
	})

	srv := &http.Server{
		Addr:              cfg.HTTP_ADDR,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close", "error", err)
		}
	}
}
