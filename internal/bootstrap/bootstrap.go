package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/uniattend/internal/app/auth"
	appControllers "github.com/yigit/uniattend/internal/app/controllers"
	appMigrations "github.com/yigit/uniattend/internal/app/migrations"
	appRepos "github.com/yigit/uniattend/internal/app/repositories"
	appRoutes "github.com/yigit/uniattend/internal/app/routes"
	appServices "github.com/yigit/uniattend/internal/app/services"
	"github.com/yigit/uniattend/internal/config"
	"github.com/yigit/uniattend/internal/db"
	appMiddleware "github.com/yigit/uniattend/internal/middleware"
	pkgAuth "github.com/yigit/uniattend/internal/pkg/auth"
	"github.com/yigit/uniattend/internal/pkg/logger"
	"github.com/yigit/uniattend/internal/pkg/validation"
	"github.com/yigit/uniattend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Limiter        appMiddleware.Limiter
	Metrics        *appMiddleware.Metrics
	Redis          *redis.Client // nil when rate limiting is in-process
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the bootstrap admin.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool).Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.AdminAccount{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword}
	if err := seed.CreateDefaultAdmin(ctx, appRepos.NewUserRepository(dbPool), admin, lgr); err != nil {
		// the API is still usable through registration
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupLimiter picks the Redis limiter when REDIS_ADDR is set and reachable,
// falling back to the in-process limiter otherwise.
func SetupLimiter(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appMiddleware.Limiter, *redis.Client) {
	max, window := cfg.RateLimit.MaxRequests, cfg.RateLimitWindow()
	if cfg.RateLimit.RedisAddr == "" {
		return appMiddleware.NewMemoryLimiter(max, window), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.RateLimit.RedisAddr).Msg("Redis unreachable, using in-memory rate limiter")
		_ = client.Close()
		return appMiddleware.NewMemoryLimiter(max, window), nil
	}

	lgr.Info().Str("addr", cfg.RateLimit.RedisAddr).Msg("Using Redis rate limiter")
	return appMiddleware.NewRedisLimiter(client, max, window), client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	if err := validation.RegisterGinValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps := &Dependencies{Logger: lgr, Metrics: appMiddleware.NewMetrics()}
	deps.Repos = appRepos.NewRepositories(dbPool)
	repos := deps.Repos

	deps.AuthzService = appAuth.NewAuthorizationService(repos.CourseRepository)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.TokenLifetime(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.UserRepository)

	authService := appServices.NewAuthService(repos.UserRepository, deps.JWTService)
	userService := appServices.NewUserService(repos.UserRepository)
	facultyService := appServices.NewFacultyService(repos.FacultyRepository)
	departmentService := appServices.NewDepartmentService(repos.DepartmentRepository, repos.FacultyRepository)
	courseService := appServices.NewCourseService(repos.CourseRepository, repos.DepartmentRepository, repos.UserRepository, repos.EnrollmentRepository)
	sectionService := appServices.NewSectionService(repos.SectionRepository, repos.EnrollmentRepository, repos.UserRepository, deps.AuthzService)
	lessonService := appServices.NewLessonService(repos.LessonRepository, repos.SectionRepository, deps.AuthzService)
	attendanceService := appServices.NewAttendanceService(
		repos.AttendanceRepository,
		repos.LessonRepository,
		repos.SectionRepository,
		repos.EnrollmentRepository,
		deps.AuthzService,
	)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(authService),
		User:       appControllers.NewUserController(userService),
		Faculty:    appControllers.NewFacultyController(facultyService),
		Department: appControllers.NewDepartmentController(departmentService),
		Course:     appControllers.NewCourseController(courseService),
		Section:    appControllers.NewSectionController(sectionService),
		Lesson:     appControllers.NewLessonController(lessonService),
		Attendance: appControllers.NewAttendanceController(attendanceService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(),
		deps.Metrics.Middleware(),
		appMiddleware.CORS(cfg.CORS.FrontendURL),
		appMiddleware.RateLimit(deps.Limiter),
		appMiddleware.SecureHeaders(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"message":   "University Attendance System API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", deps.Metrics.Handler())
	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	router.NoRoute(appMiddleware.NotFound)

	return router
}
