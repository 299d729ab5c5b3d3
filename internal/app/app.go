// Package app собирает зависимости и управляет жизненным циклом сервера.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ejaraat_backend/internal/auth"
	"ejaraat_backend/internal/broadcast"
	"ejaraat_backend/internal/config"
	"ejaraat_backend/internal/currency"
	"ejaraat_backend/internal/database"
	"ejaraat_backend/internal/email"
	"ejaraat_backend/internal/handlers"
	"ejaraat_backend/internal/logger"
	"ejaraat_backend/internal/middleware"
	"ejaraat_backend/internal/render"
	"ejaraat_backend/internal/routes"
	"ejaraat_backend/internal/services"
	"ejaraat_backend/internal/storage"
	"ejaraat_backend/internal/validator"
	"ejaraat_backend/internal/workers"
	"ejaraat_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg       *config.Config
	db        *gorm.DB
	redis     *redis.Client
	broker    broadcast.Broker
	services  *services.ServiceContainer
	router    *gin.Engine
	wsManager *ws.WebSocketManager
	worker    *workers.StatusWorker
}

// New открывает БД и связывает все слои. При ошибке уже открытые ресурсы закрываются.
func New(cfg *config.Config) (*App, error) {
	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Debug)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")

	a, err := NewWithDB(cfg, db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return a, nil
}

// NewWithDB: то же, что New, но с готовым подключением (тесты, CLI)
func NewWithDB(cfg *config.Config, db *gorm.DB) (*App, error) {
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required")
	}

	a := &App{cfg: cfg, db: db}

	if err := a.initBroker(); err != nil {
		a.Close()
		return nil, err
	}

	container, err := a.initServices()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.services = container

	interval, err := cfg.StatusInterval()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.worker = workers.NewStatusWorker(db, container.RentalService, interval)

	a.wsManager = ws.NewWebSocketManager(a.broker, container.NotificationService, db)
	a.router = a.initRouter(container)

	return a, nil
}

// redisClient создаётся лениво: он нужен только redis-брокеру и кешу курсов
func (a *App) redisClient() *redis.Client {
	if a.redis == nil {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
	}
	return a.redis
}

func (a *App) initBroker() error {
	switch a.cfg.Broker.Type {
	case "memory", "":
		a.broker = broadcast.NewHub(a.cfg.Broker.BufferSize)
	case "redis":
		client := a.redisClient()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis unavailable: %w", err)
		}
		a.broker = broadcast.NewRedisBroker(client, a.cfg.Broker.BufferSize)
	default:
		return fmt.Errorf("unsupported broker type %q", a.cfg.Broker.Type)
	}
	logger.Info("Broker initialized", "type", a.cfg.Broker.Type)
	return nil
}

func (a *App) initServices() (*services.ServiceContainer, error) {
	cfg := a.cfg

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:     cfg.Storage.Type,
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,

		Endpoint:  cfg.Storage.Endpoint,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	var rateCache currency.RateCache
	if cfg.Currency.CacheTTL > 0 {
		rateCache = currency.NewRedisCache(a.redisClient())
	}
	rates := currency.NewClient(currency.Config{
		BaseURL:  cfg.Currency.BaseURL,
		APIKey:   cfg.Currency.APIKey,
		Timeout:  time.Duration(cfg.Currency.Timeout) * time.Second,
		CacheTTL: time.Duration(cfg.Currency.CacheTTL) * time.Second,
	}, rateCache)

	var mailer email.Mailer = email.NoopMailer{}
	if cfg.Email.Enabled {
		smtp := email.NewSMTPMailer(email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err := smtp.Validate(); err != nil {
			return nil, fmt.Errorf("email: %w", err)
		}
		mailer = smtp
	} else {
		logger.Warn("Email is disabled, overdue e-mails will not be sent")
	}

	return services.NewServiceContainer(services.Dependencies{
		Tokens:   auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute),
		Storage:  storageInstance,
		Broker:   a.broker,
		Renderer: renderer,
		Mailer:   mailer,
		Rates:    rates,
	}), nil
}

func (a *App) initRouter(container *services.ServiceContainer) *gin.Engine {
	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = handlers.MaxUploadSize
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(a.cfg.Server.AllowedOrigins))
	router.Use(middleware.DBMiddleware(a.db))

	appHandlers := handlers.NewAppHandlers(container, validator.New(), a.db)
	wsHandler := ws.NewWebSocketHandler(a.wsManager, a.cfg.Server.AllowedOrigins)
	authMW := middleware.AuthMiddleware(container.Tokens)

	routes.RegisterRoutes(router, appHandlers, wsHandler, authMW)
	return router
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) DB() *gorm.DB {
	return a.db
}

func (a *App) Services() *services.ServiceContainer {
	return a.services
}

func (a *App) Worker() *workers.StatusWorker {
	return a.worker
}

// Run запускает HTTP-сервер, менеджер WebSocket и StatusWorker под одним errgroup.
// Возвращается после отмены ctx (graceful shutdown) или первой фатальной ошибки.
func (a *App) Run(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server...")
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.wsManager.Run(gctx)
	})

	g.Go(func() error {
		return a.worker.Run(gctx)
	})

	return g.Wait()
}

// Close освобождает брокер, redis и соединение с БД
func (a *App) Close() error {
	var errs []error
	if a.broker != nil {
		errs = append(errs, a.broker.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
