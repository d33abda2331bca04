package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/coursecatalog/internal/app/controllers"
	appMigrations "github.com/yigit/coursecatalog/internal/app/migrations"
	appRepos "github.com/yigit/coursecatalog/internal/app/repositories"
	"github.com/yigit/coursecatalog/internal/app/repositories/memory"
	appRoutes "github.com/yigit/coursecatalog/internal/app/routes"
	appServices "github.com/yigit/coursecatalog/internal/app/services"
	"github.com/yigit/coursecatalog/internal/config"
	"github.com/yigit/coursecatalog/internal/db"
	"github.com/yigit/coursecatalog/internal/pkg/filestorage"
	"github.com/yigit/coursecatalog/internal/pkg/logger"
	"github.com/yigit/coursecatalog/internal/seed"
)

// DefaultConfigPath is read relative to the working directory
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Stores       appServices.Stores
	Services     *appServices.Services
	ImageStorage *filestorage.LocalStorage
	Controllers  appRoutes.Controllers
	Logger       zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured store. For postgres it connects and applies
// migrations; the returned *db.PostgresDB is nil for the memory driver.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, appServices.Stores, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Info().Msg("Using in-memory store")
		stores := memory.NewStore().Stores()
		if err := seedIfRequested(ctx, cfg, stores, lgr); err != nil {
			return nil, appServices.Stores{}, err
		}
		return nil, stores, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, appServices.Stores{}, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, appMigrations.Files(), lgr)
	if err := migrator.Up(ctx); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, appServices.Stores{}, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	stores := appRepos.NewRepositories(database.Pool).Stores()
	if err := seedIfRequested(ctx, cfg, stores, lgr); err != nil {
		database.Close()
		return nil, appServices.Stores{}, err
	}

	return database, stores, nil
}

// seedIfRequested loads the sample catalog into an empty store when seed_on_start is set
func seedIfRequested(ctx context.Context, cfg *config.Config, stores appServices.Stores, lgr zerolog.Logger) error {
	if !cfg.Database.SeedOnStart {
		return nil
	}

	empty, err := seed.IsEmpty(ctx, stores)
	if err != nil {
		return err
	}
	if !empty {
		lgr.Info().Msg("Catalog already has data, skipping seed")
		return nil
	}

	if _, err := seed.Populate(ctx, stores, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to populate sample catalog")
		return fmt.Errorf("failed to populate sample catalog: %w", err)
	}
	return nil
}

// BuildDependencies initializes services, file storage and controllers on top of stores.
func BuildDependencies(cfg *config.Config, stores appServices.Stores, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Stores: stores,
		Logger: lgr,
	}

	var err error
	deps.ImageStorage, err = filestorage.NewLocalStorage(cfg.Storage.PublicDir, cfg.Storage.ProfileImagePath, cfg.Storage.MaxUploadBytes)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Services = appServices.NewServices(stores)

	deps.Controllers = appRoutes.Controllers{
		Category:   appControllers.NewCategoryController(deps.Services.CategoryService),
		Instructor: appControllers.NewInstructorController(deps.Services.InstructorService, deps.ImageStorage),
		Course:     appControllers.NewCourseController(deps.Services.CourseService),
	}

	return deps, nil
}

// SetupRouter configures the Gin mode and builds the engine.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	return appRoutes.NewRouter(deps.Controllers, cfg.Storage.PublicDir)
}
