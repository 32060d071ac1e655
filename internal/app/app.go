package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bachecalabs/bacheca/internal/config"
	"github.com/bachecalabs/bacheca/internal/db"
	"github.com/bachecalabs/bacheca/internal/repository"
	"github.com/bachecalabs/bacheca/internal/service"
	"github.com/bachecalabs/bacheca/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	AuthService         *service.AuthService
	UserService         *service.UserService
	EmailService        *service.EmailService
	MediaService        *service.MediaService
	AdService           *service.AdService
	ModerationService   *service.ModerationService
	VerificationService *service.VerificationService
	ContentService      *service.ContentService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	cityRepository := repository.NewCityRepository(database)
	adRepository := repository.NewAdRepository(database)
	verificationRepository := repository.NewVerificationRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	mediaService := service.NewMediaService(fileStorage)
	authService := service.NewAuthService(
		userRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	userService := service.NewUserService(userRepository)
	adService := service.NewAdService(adRepository, cityRepository)
	moderationService := service.NewModerationService(adRepository, emailService)
	verificationService := service.NewVerificationService(verificationRepository, userRepository, emailService)
	contentService := service.NewContentService(cfg.ContentPath)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		AuthService:         authService,
		UserService:         userService,
		EmailService:        emailService,
		MediaService:        mediaService,
		AdService:           adService,
		ModerationService:   moderationService,
		VerificationService: verificationService,
		ContentService:      contentService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
