package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"learning-quiz-engine/internal/app"
	"learning-quiz-engine/internal/config"
	"learning-quiz-engine/internal/content"
	"learning-quiz-engine/internal/infra/httpclient"
	"learning-quiz-engine/internal/infra/memory"
	pgstore "learning-quiz-engine/internal/infra/postgres"
	redisstore "learning-quiz-engine/internal/infra/redis"
	"learning-quiz-engine/internal/results"
	"learning-quiz-engine/internal/telemetry"
	transport "learning-quiz-engine/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz engine server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func setupLogging(cfg config.Config) {
	slog.SetDefault(telemetry.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format))
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if cfg.Redis.Trace {
			telemetry.LogRedis(redisClient)
		}
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	contentSvc, resultsSvc := buildReferenceServices(cfg, redisClient, pool)
	if len(cfg.Content.Preload) > 0 {
		if err := contentSvc.Warm(ctx, cfg.Content.Preload); err != nil {
			slog.WarnContext(ctx, "catalog preload incomplete", "error", err)
		}
	}

	// The engine uses remote services when configured, otherwise the in-process ones.
	var engineContent app.ContentService = contentSvc
	if cfg.Content.BaseURL != "" {
		engineContent = httpclient.NewContentClient(cfg.Content.BaseURL,
			httpclient.WithTimeout(config.TTLDuration(cfg.Content.Timeout, 5*time.Second)))
	}
	var engineResults app.ResultsService = resultsSvc
	if cfg.Results.BaseURL != "" {
		engineResults = httpclient.NewResultsClient(cfg.Results.BaseURL,
			httpclient.WithTimeout(config.TTLDuration(cfg.Results.Timeout, 5*time.Second)),
			httpclient.WithToken(cfg.Results.Token))
	}

	var (
		sessions   app.SessionRepository
		activities app.ActivityRepository
		guard      app.SubmissionGuard
	)
	if redisClient != nil {
		store := redisstore.NewSessionStore(redisClient, redisTTL)
		sessions, activities = store, store
		guard = redisstore.NewSubmissionGuard(redisClient, 24*time.Hour)
	} else {
		store := memory.NewSessionStore()
		sessions, activities = store, store
		guard = memory.NewSubmissionGuard()
	}

	service := app.NewQuizService(sessions, activities, engineContent, engineResults, guard, app.Options{
		Tick:           config.TTLDuration(cfg.Session.Tick, time.Second),
		ShuffleOnReset: cfg.Session.ShuffleOnReset,
		LoadTimeout:    config.TTLDuration(cfg.Session.LoadTimeout, 10*time.Second),
		CheckTimeout:   config.TTLDuration(cfg.Content.Timeout, 5*time.Second),
		SubmitTimeout:  config.TTLDuration(cfg.Results.Timeout, 5*time.Second),
	})

	server := &http.Server{
		Addr: ":" + finalPort,
		Handler: transport.NewRouter(transport.RouterConfig{
			WS:      transport.NewWSHandler(service),
			Content: contentSvc,
			Results: resultsSvc,
		}),
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("starting quiz engine", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		slog.Info("shutting down server...")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildReferenceServices wires the in-process content and results services to the configured
// storage: Postgres when available, sample data and memory otherwise; Redis fronts the catalogs.
func buildReferenceServices(cfg config.Config, redisClient *redis.Client, pool *pgxpool.Pool) (*content.Service, *results.Service) {
	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(sampleCatalogs())
	if pool != nil {
		loader = pgstore.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var catalogs content.CatalogRepository
	if redisClient != nil {
		catalogs = redisstore.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogs = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var resultRepo results.Repository = memory.NewResultRepository()
	if pool != nil {
		resultRepo = pgstore.NewResultRepository(pool)
	}

	return content.NewService(catalogs, cfg.Content.WithholdAnswers), results.NewService(resultRepo)
}
