package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/placement-service/internal/api/http"
	"github.com/spec-kit/placement-service/internal/api/http/handlers"
	"github.com/spec-kit/placement-service/internal/auth"
	"github.com/spec-kit/placement-service/internal/config"
	"github.com/spec-kit/placement-service/internal/events"
	"github.com/spec-kit/placement-service/internal/observability"
	"github.com/spec-kit/placement-service/internal/persistence"
	"github.com/spec-kit/placement-service/internal/repository"
	"github.com/spec-kit/placement-service/internal/repository/memory"
	"github.com/spec-kit/placement-service/internal/scheduler"
	"github.com/spec-kit/placement-service/internal/service"
	"github.com/spec-kit/placement-service/internal/storage"
	"github.com/spec-kit/placement-service/internal/worker"
)

// stores groups every repository the services depend on.
type stores struct {
	students      repository.StudentRepository
	admins        repository.AdminRepository
	superAdmins   repository.SuperAdminRepository
	postings      repository.PostingRepository
	applications  repository.ApplicationRepository
	notifications repository.NotificationRepository
	announcements repository.AnnouncementRepository
	activities    repository.ActivityRepository
	resources     repository.ResourceRepository
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		students:      repository.NewStudentRepository(pool),
		admins:        repository.NewAdminRepository(pool),
		superAdmins:   repository.NewSuperAdminRepository(pool),
		postings:      repository.NewPostingRepository(pool),
		applications:  repository.NewApplicationRepository(pool),
		notifications: repository.NewNotificationRepository(pool),
		announcements: repository.NewAnnouncementRepository(pool),
		activities:    repository.NewActivityRepository(pool),
		resources:     repository.NewResourceRepository(pool),
	}
}

func memoryStores(store *memory.Store) stores {
	return stores{
		students:      store.Students(),
		admins:        store.Admins(),
		superAdmins:   store.SuperAdmins(),
		postings:      store.Postings(),
		applications:  store.Applications(),
		notifications: store.Notifications(),
		announcements: store.Announcements(),
		activities:    store.Activities(),
		resources:     store.Resources(),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc, err := cfg.Sweep.Location()
	if err != nil {
		logger.Fatal("invalid sweep time zone", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var repos stores
	if pg.Configured() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = postgresStores(pg.PoolHandle())
	} else {
		repos = memoryStores(memory.NewStore())
	}

	if cfg.Auth.SuperAdminToken != "" {
		if err := repos.superAdmins.Ensure(ctx, cfg.Auth.SuperAdminEmail, cfg.Auth.SuperAdminToken); err != nil {
			logger.Fatal("failed to seed super admin", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	objects := newObjectStore(ctx, cfg.Storage, logger)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	activity := service.NewActivityRecorder(repos.activities, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		Students:        repos.students,
		Admins:          repos.admins,
		Tokens:          tokens,
		Hasher:          auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
		StudentIDPrefix: cfg.Auth.StudentIDPrefix,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Notifications: repos.notifications,
		Students:      repos.students,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
		Config:        cfg.Notification,
	})
	worker.StartNotificationWorker(notificationService, logger)

	studentService := service.NewStudentService(service.StudentDependencies{
		Students: repos.students,
		Objects:  objects,
		Activity: activity,
		Logger:   logger,
	})
	postingService := service.NewPostingService(service.PostingDependencies{
		Postings:     repos.postings,
		Applications: repos.applications,
		Students:     repos.students,
		Objects:      objects,
		Dispatcher:   dispatcher,
		Location:     loc,
		Logger:       logger,
	})
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		Applications: repos.applications,
		Postings:     repos.postings,
		Activity:     activity,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	adminService := service.NewAdminService(repos.students, repos.postings, logger)
	contentService := service.NewContentService(repos.announcements, repos.resources, logger)

	guard := auth.NewGuard(tokens, repos.students, repos.admins, repos.superAdmins, logger)

	deps := map[string]handlers.Pinger{"postgres": nil}
	if pg.Configured() {
		deps["postgres"] = pg
	}
	health := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps).WithOptional("redis", redis)

	maxUpload := cfg.Storage.MaxUploadBytes()
	// a marksheet upload carries up to ten files plus multipart framing
	bodyLimit := int(maxUpload)*10 + 1<<20
	app := httptransport.NewApp(httptransport.ServerConfig{
		AppName:   cfg.App.Name,
		BodyLimit: bodyLimit,
		Middleware: httptransport.MiddlewareConfig{
			Timeout:          cfg.App.RequestTimeout(),
			CORSAllowOrigins: cfg.App.CORSAllowOrigins,
		},
	}, logger, metrics, httptransport.RouteConfig{
		Health:   health,
		Auth:     handlers.NewAuthHandler(authService),
		Students: handlers.NewStudentHandler(studentService, applicationService, notificationService, maxUpload),
		Admin:    handlers.NewAdminHandler(adminService, notificationService),
		Company:  handlers.NewCompanyHandler(postingService, maxUpload),
		Content:  handlers.NewContentHandler(contentService),
		Guard:    guard,
	})

	if cfg.Sweep.Enabled {
		sweeper := service.NewExpirySweeper(service.SweeperDependencies{
			Postings:   repos.postings,
			Location:   loc,
			Dispatcher: dispatcher,
			Metrics:    metrics,
			Logger:     logger,
		})
		daily := &scheduler.Daily{
			Name:         "posting-expiry-sweep",
			Hour:         cfg.Sweep.Hour,
			Minute:       cfg.Sweep.Minute,
			Location:     loc,
			RunOnStartup: cfg.Sweep.RunOnStartup,
			Timeout:      cfg.Sweep.Timeout(),
			LockTTL:      cfg.Sweep.LockTTL(),
			Locker:       redis,
			Job: func(ctx context.Context) error {
				_, err := sweeper.Sweep(ctx)
				return err
			},
			Logger: logger,
		}
		go daily.Run(ctx)
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// newObjectStore returns the S3 store when a bucket endpoint is configured,
// otherwise an in-process store that only records uploads.
func newObjectStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) storage.ObjectStore {
	if cfg.Endpoint == "" && cfg.AccessKey == "" {
		logger.Warn("STORAGE_S3_ENDPOINT not provided; uploads kept in memory")
		return storage.NewMemoryStore(storage.PublicBaseURL(cfg))
	}
	store, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to init object storage", zap.Error(err))
	}
	logger.Info("object storage ready", zap.String("bucket", cfg.Bucket))
	return store
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
