// Package app собирает зависимости API: хранилище, кэш, хаб, use case'ы и роутер.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fairlance-backend/internal/config"
	"github.com/ignatzorin/fairlance-backend/internal/db"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/goroutine"
	httpRouter "github.com/ignatzorin/fairlance-backend/internal/http/router"
	"github.com/ignatzorin/fairlance-backend/internal/infrastructure/cache"
	"github.com/ignatzorin/fairlance-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/fairlance-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/fairlance-backend/internal/interface/http/handler"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/service"
	"github.com/ignatzorin/fairlance-backend/internal/storage"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/account"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/catalog"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/escrow"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/matching"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/notify"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/project"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/proposal"
	"github.com/ignatzorin/fairlance-backend/internal/ws"
)

// MatchCache кэш рейтингов вместе с инвалидацией и закрытием.
type MatchCache interface {
	matching.Cache
	account.CacheInvalidator
	Close() error
}

// Deps готовые инфраструктурные зависимости. DB равен nil для хранилища в памяти.
type Deps struct {
	Config *config.Config
	Store  repository.Store
	DB     *sqlx.DB
	Cache  MatchCache
	Hub    *ws.Hub
	Files  *storage.AttachmentStorage
}

// OpenDB подключается к SQL базе по DB_DRIVER без миграций.
func OpenDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return db.NewSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return db.NewPostgres(ctx, cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("app: драйвер %q не использует SQL базу", cfg.DBDriver)
}

// OpenStore открывает хранилище по DB_DRIVER и накатывает миграции.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, *sqlx.DB, error) {
	if cfg.DBDriver == config.DriverMemory {
		return memory.NewStore(), nil, nil
	}

	conn, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return persistence.NewStore(conn), conn, nil
}

// OpenCache выбирает Redis при заданном REDIS_URL, иначе кэш в памяти процесса.
func OpenCache(ctx context.Context, cfg *config.Config) (MatchCache, error) {
	if cfg.RedisURL == "" {
		return cache.NewMemoryCache(time.Minute), nil
	}
	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return cache.NewRedisCache(rdb), nil
}

// NewRouter строит use case'ы, хэндлеры и gin роутер поверх зависимостей.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	store := d.Store
	var publisher notify.Publisher
	if d.Hub != nil {
		publisher = d.Hub
	}
	notifier := notify.NewDispatcher(publisher)
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	var invalidator account.CacheInvalidator
	var matchCache matching.Cache
	if d.Cache != nil {
		invalidator = d.Cache
		matchCache = d.Cache
	}

	var files project.AttachmentSaver
	if d.Files != nil {
		files = d.Files
	}

	authHandler := handler.NewAuthHandler(service.NewAuthService(store, tokens))
	profileHandler := handler.NewProfileHandler(
		account.NewGetProfileUseCase(store),
		account.NewUpdateProfileUseCase(store, invalidator),
	)
	catalogHandler := handler.NewCatalogHandler(
		catalog.NewListCategoriesUseCase(store.Catalog()),
		catalog.NewListSkillsUseCase(store.Catalog()),
	)
	projectHandler := handler.NewProjectHandler(
		project.NewCreateProjectUseCase(store),
		project.NewGetProjectUseCase(store.Projects()),
		project.NewListOpenProjectsUseCase(store),
		project.NewListClientProjectsUseCase(store.Projects()),
		project.NewListFreelancerProjectsUseCase(store),
		project.NewCompleteProjectUseCase(store, notifier),
		project.NewAddAttachmentUseCase(store, files),
	)
	proposalHandler := handler.NewProposalHandler(
		proposal.NewSubmitProposalUseCase(store, notifier),
		proposal.NewGetProposalUseCase(store),
		proposal.NewListProjectProposalsUseCase(store),
		proposal.NewListMyProposalsUseCase(store),
		proposal.NewAcceptProposalUseCase(store, notifier),
		proposal.NewWithdrawProposalUseCase(store),
	)
	escrowHandler := handler.NewEscrowHandler(
		escrow.NewCreateEscrowUseCase(store),
		escrow.NewGetEscrowUseCase(store),
		escrow.NewListEscrowsUseCase(store),
		escrow.NewFundEscrowUseCase(store, notifier),
		escrow.NewReleaseEscrowUseCase(store, notifier),
		escrow.NewDisputeEscrowUseCase(store, notifier),
		escrow.NewRefundEscrowUseCase(store, notifier),
	)
	matchingHandler := handler.NewMatchingHandler(
		matching.NewMatchFreelancersUseCase(store, matchCache, cfg.MatchCacheTTL),
		matching.NewRecommendProjectsUseCase(store, matchCache, cfg.MatchCacheTTL),
		matching.NewSimilarFreelancersUseCase(store, matchCache, cfg.MatchCacheTTL),
	)
	notificationHandler := handler.NewNotificationHandler(service.NewNotificationService(store.Notifications()))
	wsHandler := handler.NewWSHandler(d.Hub, tokens, cfg.AllowedOrigins)

	return httpRouter.SetupRouter(
		cfg,
		tokens,
		handler.NewHealthHandler(d.DB),
		authHandler,
		profileHandler,
		catalogHandler,
		projectHandler,
		proposalHandler,
		escrowHandler,
		matchingHandler,
		notificationHandler,
		wsHandler,
	)
}

// Serve поднимает всё по конфигурации и обслуживает HTTP до отмены ctx.
func Serve(ctx context.Context, cfg *config.Config) error {
	store, conn, err := OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("app: хранилище: %w", err)
	}
	if conn != nil {
		defer func() {
			if err := conn.Close(); err != nil {
				logger.Log.WithError(err).Warn("app: ошибка закрытия базы")
			}
		}()
	}

	matchCache, err := OpenCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("app: кэш: %w", err)
	}
	defer func() {
		if err := matchCache.Close(); err != nil {
			logger.Log.WithError(err).Warn("app: ошибка закрытия кэша")
		}
	}()

	files, err := storage.NewAttachmentStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	engine := NewRouter(Deps{
		Config: cfg,
		Store:  store,
		DB:     conn,
		Cache:  matchCache,
		Hub:    hub,
		Files:  files,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("app: ошибка остановки http сервера")
		}
	})

	logger.Log.WithFields(logrus.Fields{
		"port":   cfg.HTTPPort,
		"driver": cfg.DBDriver,
		"env":    cfg.Env,
	}).Info("app: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("app: сервер завершился с ошибкой: %w", err)
	}
	return nil
}
