package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taste-tribe/internal/config"
	"taste-tribe/internal/database"
	"taste-tribe/internal/event"
	"taste-tribe/internal/handler"
	"taste-tribe/internal/imagehost"
	"taste-tribe/internal/logger"
	"taste-tribe/internal/middleware"
	"taste-tribe/internal/repository"
	"taste-tribe/internal/router"
	"taste-tribe/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel))

	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	slog.Info("database ready", "driver", db.Driver)

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	appHandler, shutdown, err := NewHandler(backgroundCtx, cfg, db)
	if err != nil {
		backgroundCancel()
		db.Close()
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appHandler,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			backgroundCancel,
			shutdown,
			db.Close,
		},
	}, nil
}

// NewHandler wires repositories, services and handlers over db and starts the
// background workers (revocation sweeper, notification consumer, optional Kafka
// forwarder). The workers stop when ctx ends; the returned func releases the
// event bus and the Kafka writer.
func NewHandler(ctx context.Context, cfg *config.Config, db *database.DB) (http.Handler, func(), error) {
	userRepo := repository.NewUserRepository(db.Gorm)
	recipeRepo := repository.NewRecipeRepository(db.Gorm)
	bookmarkRepo := repository.NewBookmarkRepository(db.Gorm)
	likeRepo := repository.NewLikeRepository(db.Gorm)
	ratingRepo := repository.NewRatingRepository(db.Gorm)
	commentRepo := repository.NewCommentRepository(db.Gorm)
	notificationRepo := repository.NewNotificationRepository(db.Gorm)
	contactRepo := repository.NewContactRepository(db.Gorm)
	auditRepo := repository.NewAuditRepository(db.Gorm)

	revocations := service.NewMemoryRevocationRegistry()
	revocations.StartSweeper(ctx, cfg.RevocationSweepInterval)

	issuer, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAccessTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	bus := event.NewBus()
	closers := []func(){bus.Close}
	shutdown := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	notificationService := service.NewNotificationService(notificationRepo)
	notificationEvents, _ := bus.Subscribe()
	go notificationService.Run(ctx, notificationEvents)

	if len(cfg.KafkaBrokers) > 0 {
		forwarder := event.NewKafkaForwarder(cfg.KafkaBrokers, cfg.KafkaTopic)
		forwardEvents, _ := bus.Subscribe()
		go forwarder.Run(ctx, forwardEvents)
		closers = append(closers, func() {
			if err := forwarder.Close(); err != nil {
				slog.Warn("close kafka writer", "error", err)
			}
		})
		slog.Info("activity events forwarded to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	imageHost, err := imagehost.New(imagehost.Config{
		URL:          cfg.ImageHost.URL(),
		UploadPrefix: cfg.ImageHost.BaseURL,
		Folder:       cfg.ImageHost.Folder,
	})
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	if !imageHost.Enabled() {
		slog.Warn("CLOUDINARY_URL not set, avatar uploads are disabled")
	}

	authService := service.NewAuthService(userRepo, issuer, revocations, bus)
	if cfg.AdminUsername != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			shutdown()
			return nil, nil, fmt.Errorf("failed to ensure admin account: %w", err)
		}
	}

	avatars := service.NewAvatarProcessor(cfg.AvatarMaxSize, cfg.AvatarMaxDimension, cfg.AvatarMaxPixels)
	userService := service.NewUserService(userRepo, revocations, avatars, imageHost, bus)
	recipeService := service.NewRecipeService(recipeRepo, bookmarkRepo, likeRepo, bus)
	engagementService := service.NewEngagementService(recipeRepo, bookmarkRepo, likeRepo, ratingRepo, commentRepo, bus)
	contactService := service.NewContactService(contactRepo)
	auditService := service.NewAuditService(auditRepo)
	adminService := service.NewAdminService(userService, userRepo, recipeRepo, commentRepo, contactRepo, revocations, auditService)

	authMiddleware := middleware.NewAuthMiddleware(authService, revocations, userRepo)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		System:       handler.NewSystemHandler(db),
		Auth:         handler.NewAuthHandler(authService, auditService),
		User:         handler.NewUserHandler(userService, authService, cfg.AvatarMaxSize),
		Recipe:       handler.NewRecipeHandler(recipeService, engagementService),
		Engagement:   handler.NewEngagementHandler(engagementService),
		Notification: handler.NewNotificationHandler(notificationService),
		Contact:      handler.NewContactHandler(contactService),
		Admin:        handler.NewAdminHandler(adminService, userService),
		Audit:        handler.NewAuditHandler(auditService),
	})

	return appRouter, shutdown, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
