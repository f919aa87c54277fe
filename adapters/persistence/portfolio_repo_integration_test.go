package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/devfolio/internal/domain/portfolio"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type PortfolioRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	repo        portfolio.Repository
}

func (s *PortfolioRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.repo = NewPostgresPortfolioRepo(pool, logger.NewNop())
}

func (s *PortfolioRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(context.Background())
	}
}

func sampleRecord(handle string) *portfolio.Record {
	rating := 1800.0
	return &portfolio.Record{
		Handle: handle,
		Identity: portfolio.Identity{
			Username:    handle,
			Name:        "The Octocat",
			Bio:         "Mascot",
			PublicRepos: 8,
		},
		Repositories: []portfolio.RepositoryRef{
			{Name: "hello-world", Language: "Go", Stars: 42, Topics: []string{"demo"}},
			{Name: "spoon-knife", Language: "Ruby", Stars: 12, Topics: []string{}},
		},
		Calendar: &portfolio.ContributionCalendar{
			Weeks: []portfolio.ContributionWeek{
				{Days: []portfolio.ContributionDay{{Date: "2026-08-24", Count: 3, Level: 2}}},
			},
			TotalContributions: 3,
		},
		LeetCode: &portfolio.JudgeStats{TotalSolved: 100, ContestRating: &rating},
	}
}

func (s *PortfolioRepoIntegrationTestSuite) TestUpsertThenGet() {
	ctx := context.Background()

	err := s.repo.Upsert(ctx, sampleRecord("octocat"))
	s.Require().NoError(err)

	got, err := s.repo.GetByHandle(ctx, "octocat")
	s.Require().NoError(err)
	s.Equal("octocat", got.Handle)
	s.Equal("The Octocat", got.Identity.Name)
	s.Len(got.Repositories, 2)
	s.Require().NotNil(got.LeetCode)
	s.Require().NotNil(got.LeetCode.ContestRating)
	s.InDelta(1800.0, *got.LeetCode.ContestRating, 0.001)
	s.Nil(got.Codeforces)
	s.Nil(got.Enriched)
}

func (s *PortfolioRepoIntegrationTestSuite) TestUpsertIsIdempotent() {
	ctx := context.Background()
	handle := "repeat-handle"

	s.Require().NoError(s.repo.Upsert(ctx, sampleRecord(handle)))
	s.Require().NoError(s.repo.Upsert(ctx, sampleRecord(handle)))

	var count int
	err := s.dbPool.QueryRow(ctx, "SELECT COUNT(*) FROM portfolios WHERE handle = $1", handle).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count, "upsert must never create a second row for a handle")

	got, err := s.repo.GetByHandle(ctx, handle)
	s.Require().NoError(err)
	s.Len(got.Repositories, 2, "repository list must not accumulate")
}

func (s *PortfolioRepoIntegrationTestSuite) TestUpsertReplacesRepositoryList() {
	ctx := context.Background()
	handle := "replace-handle"

	s.Require().NoError(s.repo.Upsert(ctx, sampleRecord(handle)))

	next := sampleRecord(handle)
	next.Repositories = []portfolio.RepositoryRef{{Name: "only-one", Language: "Rust", Topics: []string{}}}
	s.Require().NoError(s.repo.Upsert(ctx, next))

	got, err := s.repo.GetByHandle(ctx, handle)
	s.Require().NoError(err)
	s.Require().Len(got.Repositories, 1)
	s.Equal("only-one", got.Repositories[0].Name)
}

func (s *PortfolioRepoIntegrationTestSuite) TestUpsertPreservesAbsentSections() {
	ctx := context.Background()
	handle := "preserve-handle"

	s.Require().NoError(s.repo.Upsert(ctx, sampleRecord(handle)))

	// Degraded aggregation: judge data missing this time around.
	next := sampleRecord(handle)
	next.LeetCode = nil
	next.Calendar = nil
	s.Require().NoError(s.repo.Upsert(ctx, next))

	got, err := s.repo.GetByHandle(ctx, handle)
	s.Require().NoError(err)
	s.NotNil(got.LeetCode, "a missing section must not erase stored data")
	s.NotNil(got.Calendar)
}

func (s *PortfolioRepoIntegrationTestSuite) TestUpsertWritesBackTimestamps() {
	ctx := context.Background()
	handle := "timestamp-handle"

	rec := sampleRecord(handle)
	s.Require().NoError(s.repo.Upsert(ctx, rec))
	s.False(rec.CreatedAt.IsZero(), "created_at must come back from the database")
	s.False(rec.UpdatedAt.IsZero(), "updated_at must come back from the database")
	s.NotEqual(uuid.Nil, rec.ID)

	// A second aggregation updates the same row: same id, newer updated_at.
	next := sampleRecord(handle)
	s.Require().NoError(s.repo.Upsert(ctx, next))
	s.Equal(rec.ID, next.ID)
	s.False(next.UpdatedAt.Before(rec.UpdatedAt))
}

func (s *PortfolioRepoIntegrationTestSuite) TestGetByHandleNotFound() {
	_, err := s.repo.GetByHandle(context.Background(), "nobody-here")
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func TestPortfolioRepoIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PortfolioRepoIntegrationTestSuite))
}
