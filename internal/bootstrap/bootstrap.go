package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/campusfeedback/internal/app/auth"
	appControllers "github.com/yigit/campusfeedback/internal/app/controllers"
	appMigrations "github.com/yigit/campusfeedback/internal/app/migrations"
	appRepos "github.com/yigit/campusfeedback/internal/app/repositories"
	appRoutes "github.com/yigit/campusfeedback/internal/app/routes"
	appServices "github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/config"
	"github.com/yigit/campusfeedback/internal/db"
	appMiddleware "github.com/yigit/campusfeedback/internal/middleware"
	"github.com/yigit/campusfeedback/internal/pkg/academic"
	pkgAuth "github.com/yigit/campusfeedback/internal/pkg/auth"
	"github.com/yigit/campusfeedback/internal/pkg/cache"
	"github.com/yigit/campusfeedback/internal/pkg/email"
	"github.com/yigit/campusfeedback/internal/pkg/helpers"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
	"github.com/yigit/campusfeedback/internal/pkg/metrics"
	"github.com/yigit/campusfeedback/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Durations      *academic.DurationResolver
	StatusCache    *cache.StatusCache
	Metrics        *metrics.Metrics
	Mailer         email.EmailService
	AuthService    appServices.AuthService
	UserService    appServices.UserService
	AuthzService   *appAuth.AuthorizationService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    *appRoutes.Controllers
	Logger         zerolog.Logger
}

// Close releases the Redis client. The pool is owned by the caller.
func (d *Dependencies) Close() error {
	return d.StatusCache.Close()
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{Level: logLevel, Format: cfg.Logging.Format})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the pool and runs pending migrations.
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	if err := Migrate(context.Background(), dbPool, cfg.Server.MigrationsDir, lgr); err != nil {
		dbPool.Close()
		return nil, err
	}
	return dbPool, nil
}

// Migrate applies the SQL files of dir that have not run yet.
func Migrate(ctx context.Context, dbPool *pgxpool.Pool, dir string, lgr zerolog.Logger) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		lgr.Error().Str("path", dir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	lgr.Info().Str("path", dir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).MigrateFromDirectory(ctx, dir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SeedDefaults creates programs, questions and the bootstrap admin. Failures
// are logged and startup continues.
func SeedDefaults(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) {
	stores := seed.Stores{Programs: repos.Program, Questions: repos.Question, Staff: repos.Staff}
	opts := seed.Options{
		AdminUsername: config.GetEnv("BOOTSTRAP_ADMIN_USERNAME", "admin"),
		AdminEmail:    config.GetEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		AdminPassword: config.GetEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}
	if err := seed.CreateDefaultData(ctx, stores, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// NewJWTService builds the token service from configuration.
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
}

// NewMailer builds the configured email provider.
func NewMailer(cfg *config.Config, lgr zerolog.Logger) email.EmailService {
	return email.NewEmailService(email.Config{
		Provider:     cfg.Email.Provider,
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		SMTPUseTLS:   cfg.Email.SMTPUseTLS,
		SendGridKey:  cfg.Email.SendGridKey,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	}, lgr)
}

// NewUserService builds the staff account service. The admin CLI uses it
// without the rest of the HTTP stack.
func NewUserService(cfg *config.Config, repos *appRepos.Repositories, statusCache *cache.StatusCache, recorder appServices.BulkRecorder, lgr zerolog.Logger) appServices.UserService {
	return appServices.NewUserService(
		repos.Staff,
		repos.PasswordResetToken,
		NewMailer(cfg, lgr),
		helpers.ParseDuration(cfg.Email.ResetTokenTTL, 24*time.Hour),
		statusCache,
		recorder,
	)
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Metrics = metrics.New()
	deps.JWTService = NewJWTService(cfg)
	deps.Mailer = NewMailer(cfg, lgr)

	redisClient := cache.Connect(context.Background(), cache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, lgr)
	deps.StatusCache = cache.NewStatusCache(redisClient, helpers.ParseDuration(cfg.Redis.StatusTTL, 5*time.Minute))

	deps.Durations = academic.NewDurationResolver(
		deps.Repos.Program,
		cfg.Academic.FallbackDurations,
		cfg.Academic.DefaultDuration,
		logger.Component("academic"),
	)
	resetTTL := helpers.ParseDuration(cfg.Email.ResetTokenTTL, 24*time.Hour)

	repos := deps.Repos
	deps.AuthService = appServices.NewAuthService(
		repos.Student,
		repos.Staff,
		repos.Token,
		repos.PasswordResetToken,
		deps.Mailer,
		resetTTL,
		deps.JWTService,
		deps.Durations,
	)
	deps.UserService = appServices.NewUserService(repos.Staff, repos.PasswordResetToken, deps.Mailer, resetTTL, deps.StatusCache, deps.Metrics)
	deps.AuthzService = appAuth.NewAuthorizationService(repos.Staff)

	departmentService := appServices.NewDepartmentService(repos.Program, repos.Branch, repos.Batch, deps.Durations, deps.Metrics)
	studentService := appServices.NewStudentService(repos.Student, deps.Durations, deps.StatusCache, deps.Metrics)
	facultyService := appServices.NewFacultyService(repos.Faculty, deps.Metrics)
	subjectService := appServices.NewSubjectService(repos.Subject, deps.Durations, deps.Metrics)
	mapService := appServices.NewSubjectMapService(repos.SubjectMap, repos.Subject, repos.Faculty, deps.Durations, deps.Metrics)
	questionService := appServices.NewQuestionService(repos.Question)
	windowService := appServices.NewWindowService(repos.Window, deps.Durations)
	feedbackService := appServices.NewFeedbackService(repos.Student, repos.SubjectMap, repos.Question, repos.Window, repos.Feedback, deps.Durations, deps.Metrics)
	analyticsService := appServices.NewAnalyticsService(repos.Window, repos.SubjectMap, repos.Feedback, cfg.Academic.MaxRating)
	statsService := appServices.NewStatsService(repos.Stats, repos.Student, repos.Batch, repos.Subject, repos.Faculty, repos.Window)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthService, deps.StatusCache)

	deps.Controllers = &appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, logger.Component("auth")),
		Department: appControllers.NewDepartmentController(departmentService),
		Faculty:    appControllers.NewFacultyController(facultyService, subjectService),
		Student:    appControllers.NewStudentController(studentService),
		User:       appControllers.NewUserController(deps.UserService),
		SubjectMap: appControllers.NewSubjectMapController(mapService, deps.AuthzService),
		Question:   appControllers.NewQuestionController(questionService),
		Template:   appControllers.NewTemplateController(appServices.NewTemplateService()),
		Window:     appControllers.NewWindowController(windowService, deps.AuthzService),
		Analytics:  appControllers.NewAnalyticsController(analyticsService, statsService, deps.AuthzService),
		Feedback:   appControllers.NewFeedbackController(feedbackService),
		HOD:        appControllers.NewHODController(departmentService, studentService, facultyService, subjectService, deps.AuthzService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(deps.Metrics.Middleware())
	router.Use(cors.New(corsConfig(cfg)))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	router.GET("/metrics", deps.Metrics.Handler())

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	origins := cfg.Origins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = origins
	}
	return c
}
