package factory

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"

	"moviebrowser/internal/config"
	"moviebrowser/internal/domain"
	"moviebrowser/internal/repository"
	"moviebrowser/internal/service"
	"moviebrowser/pkg/cache"
	"moviebrowser/pkg/logger"
)

type Factory interface {
	GetLogger() logger.Logger
	GetConfig() *config.Config
	GetDB() *sql.DB
	GetCache() cache.Cache

	GetUserRepository() domain.UserRepository
	GetMovieRepository() domain.MovieRepository
	GetRentalRepository() domain.RentalRepository
	GetAuditLogRepository() domain.AuditLogRepository

	GetAuthService() *service.AuthService
	GetAuditLogService() domain.AuditLogService
}

type AppFactory struct {
	config      *config.Config
	logger      logger.Logger
	db          *sql.DB
	redisClient *redis.Client
	cache       cache.Cache

	userRepository     domain.UserRepository
	movieRepository    domain.MovieRepository
	rentalRepository   domain.RentalRepository
	auditLogRepository domain.AuditLogRepository

	authService     *service.AuthService
	auditLogService domain.AuditLogService
}

func NewFactory() (Factory, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.LogLevel(cfg.LogLevel), nil)

	db, err := sql.Open("sqlite3", cfg.Database.Path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	factory := &AppFactory{
		config: cfg,
		logger: log,
		db:     db,
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}

		factory.redisClient = redisClient
		factory.cache = cache.NewRedisCache(redisClient, log, "moviebrowser")
	}

	factory.initRepositories()
	factory.initServices()

	return factory, nil
}

func (f *AppFactory) initRepositories() {
	f.userRepository = repository.NewUserRepository(f.db, f.logger)
	f.rentalRepository = repository.NewRentalRepository(f.db, f.logger)
	f.auditLogRepository = repository.NewAuditLogRepository(f.db, f.logger)

	f.movieRepository = repository.NewMovieRepository(f.db, f.logger)
	if f.cache != nil {
		f.movieRepository = repository.NewCachedMovieRepository(f.movieRepository, f.cache, f.logger)
	}
}

func (f *AppFactory) initServices() {
	f.authService = service.NewAuthService(
		f.userRepository,
		f.movieRepository,
		f.rentalRepository,
		f.auditLogRepository,
		f.logger,
	)

	f.auditLogService = service.NewAuditLogService(f.auditLogRepository, f.logger)
}

func (f *AppFactory) GetLogger() logger.Logger {
	return f.logger
}

func (f *AppFactory) GetConfig() *config.Config {
	return f.config
}

func (f *AppFactory) GetDB() *sql.DB {
	return f.db
}

func (f *AppFactory) GetCache() cache.Cache {
	return f.cache
}

func (f *AppFactory) GetUserRepository() domain.UserRepository {
	return f.userRepository
}

func (f *AppFactory) GetMovieRepository() domain.MovieRepository {
	return f.movieRepository
}

func (f *AppFactory) GetRentalRepository() domain.RentalRepository {
	return f.rentalRepository
}

func (f *AppFactory) GetAuditLogRepository() domain.AuditLogRepository {
	return f.auditLogRepository
}

func (f *AppFactory) GetAuthService() *service.AuthService {
	return f.authService
}

func (f *AppFactory) GetAuditLogService() domain.AuditLogService {
	return f.auditLogService
}
