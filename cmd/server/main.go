package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"jobprep/interview/internal/config"
	"jobprep/interview/internal/handlers"
	"jobprep/interview/internal/jobs"
	"jobprep/interview/internal/metrics"
	appmw "jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/questionbank"
	"jobprep/interview/internal/repositories"
	mongorepo "jobprep/interview/internal/repositories/mongo"
	"jobprep/interview/internal/routers"
	"jobprep/interview/internal/services"
	"jobprep/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// overridable in tests
var (
	newLogger      = func(opts ...zap.Option) (*zap.Logger, error) { return zap.NewProduction(opts...) }
	loadDotEnv     = func() error { return godotenv.Load() }
	gormOpen       = defaultGormOpen
	runAutoMigrate = func(db *gorm.DB, dst ...interface{}) error { return db.AutoMigrate(dst...) }
	listenAndServe = func(server *http.Server) error { return server.ListenAndServe() }
)

func defaultGormOpen(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}
	return gorm.Open(dialector, &gorm.Config{})
}

// app holds the wired service and the resources it must release.
type app struct {
	router   *chi.Mux
	sessions *services.SessionManager
	workers  sync.WaitGroup
	closers  []func()
}

func (a *app) close() {
	// reverse order: sessions flush history before redis and the database go away
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.close()
		return nil, err
	}

	db, err := gormOpen(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fail(fmt.Errorf("failed to connect to database: %w", err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fail(fmt.Errorf("failed to get sql DB: %w", err))
	}
	a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	if err := runAutoMigrate(db, &models.InterviewHistory{}); err != nil {
		return fail(fmt.Errorf("failed to migrate database: %w", err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	a.closers = append(a.closers, func() { _ = rdb.Close() })

	bank, err := questionbank.New()
	if err != nil {
		return fail(err)
	}

	checks := map[string]handlers.Checker{
		"database": func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	if cfg.MongoURI != "" {
		if mc := loadQuestionSets(ctx, cfg, bank, logger); mc != nil {
			a.closers = append(a.closers, func() { _ = mc.Close(context.Background()) })
			checks["mongo"] = mc.Ping
		}
	}

	historyRepo := &repositories.HistoryRepository{DB: db}
	settingsRepo := &repositories.SettingsRepository{Client: rdb}

	publisher := services.NewHistoryPublisher(rdb, cfg.HistoryTopic, historyRepo, services.DefaultBreakerSettings(), logger)
	subscriber := services.NewHistorySubscriber(rdb, cfg.HistoryTopic, historyRepo, logger)

	// workers run until close stops them, not until ctx ends, so they never
	// outlive redis or the database
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	a.workers.Add(1)
	go func() {
		defer a.workers.Done()
		subscriber.Subscribe(workerCtx)
	}()

	a.sessions = services.NewSessionManager(services.SessionManagerConfig{
		Questions:        bank,
		Settings:         settingsRepo,
		History:          publisher,
		FeedbackStrategy: cfg.FeedbackStrategy,
		QuestionSeconds:  cfg.QuestionSeconds,
		AnalysisDelay:    cfg.AnalysisDelay,
		TTL:              cfg.SessionTTL,
		Logger:           logger,
	})
	a.workers.Add(1)
	go func() {
		defer a.workers.Done()
		a.sessions.Run(workerCtx)
	}()
	a.closers = append(a.closers, func() {
		stopWorkers()
		a.workers.Wait()
		a.sessions.Shutdown()
	})

	exporter := jobs.NewHistoryExporterJob(historyRepo, &jobs.ExporterConfig{
		Schedule:      cfg.HistoryExportSchedule,
		ExportDir:     cfg.HistoryExportDir,
		ExportEnabled: cfg.HistoryExportEnabled,
	}, logger)
	if err := exporter.Start(); err != nil {
		logger.Error("failed to start history exporter", zap.Error(err))
	} else {
		a.closers = append(a.closers, exporter.Stop)
	}

	limiter := appmw.NewLimiterManager(cfg.RateLimitPerMin, cfg.RateLimitBurst)
	a.closers = append(a.closers, limiter.Close)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	// no request timeout middleware: the session stream is long-lived
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	router.Use(metrics.Middleware("interview"))

	protect := []func(http.Handler) http.Handler{
		appmw.RequireAuth(cfg.JWTSecret, logger),
		appmw.RateLimit(limiter),
	}
	routers.HealthRoutes(router, handlers.NewHealthHandler(checks), metrics.Handler())
	routers.InterviewRoutes(router, handlers.NewInterviewHandler(a.sessions, bank, logger), protect...)
	routers.HistoryRoutes(router, &handlers.HistoryHandler{Repo: historyRepo, Logger: logger}, protect...)
	routers.SettingsRoutes(router, &handlers.SettingsHandler{Repo: settingsRepo, Logger: logger}, protect...)
	a.router = router

	return a, nil
}

// loadQuestionSets merges curated question sets from MongoDB over the embedded ones.
// The service keeps running on the embedded sets when MongoDB is unreachable.
func loadQuestionSets(ctx context.Context, cfg *config.Config, bank *questionbank.Bank, logger *zap.Logger) *mongorepo.Client {
	mc, err := mongorepo.NewClient(ctx, cfg.MongoURI, cfg.QuestionsDBName)
	if err != nil {
		logger.Warn("mongo unavailable, using embedded question sets", zap.Error(err))
		return nil
	}
	repo, err := mongorepo.NewQuestionSetRepo(ctx, mc)
	if err != nil {
		logger.Warn("failed to open question set collection", zap.Error(err))
		return mc
	}
	n, err := repo.LoadInto(ctx, bank)
	if err != nil {
		logger.Warn("failed to load question sets", zap.Error(err))
		return mc
	}
	logger.Info("loaded question sets from mongo", zap.Int("count", n))
	return mc
}

func run(ctx context.Context) error {
	// a missing .env file is normal outside local development
	_ = loadDotEnv()

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()
	utils.SetLogger(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded",
		zap.String("db_driver", cfg.DBDriver),
		zap.String("feedback_strategy", cfg.FeedbackStrategy))

	appCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := newApp(appCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	// http server with timeouts; WebSocket upgrades clear the deadlines
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("interview service starting", zap.String("addr", server.Addr))
		err := listenAndServe(server)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("interview service shutting down...")

	// graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("interview service exited")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
