// Package tutorcrm собирает основное приложение школы: хранилище,
// кеш, брокер уведомлений, бизнес-сервисы и HTTP-сервер.
package tutorcrm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/edulingo/tutorcrm/internal/cache"
	"github.com/edulingo/tutorcrm/internal/config"
	"github.com/edulingo/tutorcrm/internal/lib/jwt"
	"github.com/edulingo/tutorcrm/internal/lib/rabbitmq"
	"github.com/edulingo/tutorcrm/internal/lib/sl"
	"github.com/edulingo/tutorcrm/internal/migrations"
	authservice "github.com/edulingo/tutorcrm/internal/services/auth"
	"github.com/edulingo/tutorcrm/internal/services/conflict"
	"github.com/edulingo/tutorcrm/internal/services/dashboard"
	paymentservice "github.com/edulingo/tutorcrm/internal/services/payment"
	"github.com/edulingo/tutorcrm/internal/services/registry"
	sessionservice "github.com/edulingo/tutorcrm/internal/services/session"
	subservice "github.com/edulingo/tutorcrm/internal/services/subscription"
	"github.com/edulingo/tutorcrm/internal/storage/repository"
)

// Задержка живой проверки расписания: проверка запускается только
// после паузы во вводе такой длительности.
const precheckDelay = 500 * time.Millisecond

// App инкапсулирует ресурсы основного приложения.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	checker *conflict.LiveChecker
	conn    *amqp.Connection
	ch      *amqp.Channel
}

// New подключает хранилище, применяет миграции, поднимает кеш и брокер
// уведомлений, собирает сервисы и настраивает маршруты HTTP-сервера.
// Брокер уведомлений необязателен: при пустом URL события не публикуются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var conn *amqp.Connection
	var ch *amqp.Channel
	var events subservice.EventPublisher
	if cfg.RabbitMQURL != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		events = &eventPublisher{ch: ch}
	} else {
		logger.Warn("rabbitmq url is empty, subscription events will not be published")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)

	validator := conflict.NewValidator(db, logger)
	checker := conflict.NewLiveChecker(validator, precheckDelay, logger)

	subscriptionService := subservice.NewSubscriptionService(db, validator, cacheRedis, events, logger)
	sessionService := sessionservice.New(db, logger)
	registryService := registry.New(db, logger)
	paymentService := paymentservice.New(db, logger)
	dashboardService := dashboard.New(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Subscription: subscriptionService,
		Conflict:     validator,
		Precheck:     checker,
		Session:      sessionService,
		Registry:     registryService,
		Payment:      paymentService,
		Dashboard:    dashboardService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		db:      db,
		checker: checker,
		conn:    conn,
		ch:      ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста,
// после чего останавливает сервер с таймаутом и закрывает ресурсы.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.checker.Stop()
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		if a.ch != nil {
			if closeErr := a.ch.Close(); closeErr != nil {
				a.logger.Error("failed to close channel", sl.Err(closeErr))
			}
		}
		if a.conn != nil {
			if closeErr := a.conn.Close(); closeErr != nil {
				a.logger.Error("failed to close connection", sl.Err(closeErr))
			}
		}
		return err
	}
}

// eventPublisher отправляет доменные события в обменник уведомлений.
type eventPublisher struct {
	ch *amqp.Channel
}

func (p *eventPublisher) Publish(routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.ch, "notifications", routingKey, message)
}
