package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"learning-quiz-engine/internal/app"
	"learning-quiz-engine/internal/content"
	"learning-quiz-engine/internal/domain"
	pgstore "learning-quiz-engine/internal/infra/postgres"
	pgmigrations "learning-quiz-engine/internal/infra/postgres/migrations"
	infraredis "learning-quiz-engine/internal/infra/redis"
	"learning-quiz-engine/internal/results"
)

func TestQuizRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewCatalogLoader(pool)
	if err := loader.SaveCatalog(ctx, sampleCatalog()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	catalogs := infraredis.NewCatalogRepository(redisClient, loader, 5*time.Minute)
	contentSvc := content.NewService(catalogs, true)
	resultRepo := pgstore.NewResultRepository(pool)
	resultsSvc := results.NewService(resultRepo)
	store := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	guard := infraredis.NewSubmissionGuard(redisClient, time.Hour)
	service := app.NewQuizService(store, store, contentSvc, resultsSvc, guard, app.Options{})

	learner := domain.Learner{ID: "u1", DisplayName: "Alice"}
	session := service.Start(ctx, "quiz-1", learner)
	if session.Status() != app.StatusPresenting {
		t.Fatalf("expected presenting, got %s (%s)", session.Status(), session.View().Notice)
	}
	served, err := contentSvc.Catalog(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !served.Items[0].Answer.IsZero() {
		t.Fatalf("expected withheld canonical answer")
	}

	answers := []domain.Answer{domain.Choice("o2"), domain.Order(2, 0, 1)}
	for i, answer := range answers {
		if !session.Answer(answer) {
			t.Fatalf("answer %d refused", i)
		}
		outcome, ok := session.Check(ctx)
		if !ok {
			t.Fatalf("check %d refused", i)
		}
		if outcome.Source != domain.SourceRemote {
			t.Fatalf("expected remote verification, got %s", outcome.Source)
		}
		if !session.Next(ctx) {
			t.Fatalf("next %d refused", i)
		}
	}

	view := session.View()
	if view.Status != app.StatusCompleted || !view.Submitted {
		t.Fatalf("expected completed and submitted, got %+v", view)
	}

	record, err := resultsSvc.Get(ctx, view.RunID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if record.TotalMarks != 3 || record.PossibleMarks != 3 || record.ParticipatedQuestions != 2 {
		t.Fatalf("unexpected record %+v", record)
	}

	created, err := resultRepo.Save(ctx, record)
	if err != nil {
		t.Fatalf("resave: %v", err)
	}
	if created {
		t.Fatalf("expected duplicate save to be ignored")
	}

	list, err := resultsSvc.ListByLearner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one record, got %d", len(list))
	}

	if _, err := contentSvc.Catalog(ctx, "quiz-missing"); err == nil {
		t.Fatalf("expected missing catalog error")
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		QuizID: "quiz-1",
		Title:  "Mixed practice",
		Style:  domain.StyleReadWrite,
		Items: []domain.Item{
			{
				ID:     "q1",
				Prompt: "What is 2 + 2?",
				Type:   domain.ItemSingleChoice,
				Options: []domain.Option{
					{ID: "o1", Text: "3"},
					{ID: "o2", Text: "4"},
					{ID: "o3", Text: "5"},
				},
				Answer: domain.Choice("o2"),
			},
			{
				ID:     "q2",
				Prompt: "Order the planets by distance from the sun.",
				Type:   domain.ItemOrdering,
				Steps:  []string{"Mars", "Mercury", "Earth"},
				Answer: domain.Order(2, 0, 1),
				Points: 2,
			},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
