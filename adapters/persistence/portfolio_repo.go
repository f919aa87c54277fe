package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/domain/portfolio"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type postgresPortfolioRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPortfolioRepo(db *pgxpool.Pool, logger logger.Logger) portfolio.Repository {
	return &postgresPortfolioRepo{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Upsert inserts or fully replaces the record for a handle. Handle is the
// uniqueness invariant: repeated aggregations update the single row, they
// never append. Optional sections arrive as NULL and keep the previously
// stored value, so a degraded aggregation cannot erase good data. The
// database-assigned id and timestamps are written back into rec.
func (r *postgresPortfolioRepo) Upsert(ctx context.Context, rec *portfolio.Record) error {
	identityBytes, err := json.Marshal(rec.Identity)
	if err != nil {
		return apperror.NewInternal("failed to marshal identity", err)
	}

	if rec.Repositories == nil {
		rec.Repositories = []portfolio.RepositoryRef{}
	}
	reposBytes, err := json.Marshal(rec.Repositories)
	if err != nil {
		return apperror.NewInternal("failed to marshal repositories", err)
	}

	calendarBytes, err := marshalNullable(rec.Calendar)
	if err != nil {
		return apperror.NewInternal("failed to marshal calendar", err)
	}
	leetcodeBytes, err := marshalNullable(rec.LeetCode)
	if err != nil {
		return apperror.NewInternal("failed to marshal judge stats", err)
	}
	codeforcesBytes, err := marshalNullable(rec.Codeforces)
	if err != nil {
		return apperror.NewInternal("failed to marshal codeforces stats", err)
	}
	enrichedBytes, err := marshalNullable(rec.Enriched)
	if err != nil {
		return apperror.NewInternal("failed to marshal enriched profile", err)
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	query := `
		INSERT INTO portfolios (id, handle, identity, repositories, calendar, leetcode, codeforces, enriched, resume_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (handle) DO UPDATE SET
			identity     = EXCLUDED.identity,
			repositories = EXCLUDED.repositories,
			calendar     = COALESCE(EXCLUDED.calendar, portfolios.calendar),
			leetcode     = COALESCE(EXCLUDED.leetcode, portfolios.leetcode),
			codeforces   = COALESCE(EXCLUDED.codeforces, portfolios.codeforces),
			enriched     = COALESCE(EXCLUDED.enriched, portfolios.enriched),
			resume_url   = CASE WHEN EXCLUDED.resume_url <> '' THEN EXCLUDED.resume_url ELSE portfolios.resume_url END,
			updated_at   = NOW()
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query,
		rec.ID,
		rec.Handle,
		identityBytes,
		reposBytes,
		calendarBytes,
		leetcodeBytes,
		codeforcesBytes,
		enrichedBytes,
		rec.ResumeURL,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return apperror.NewInternal("failed to upsert portfolio", err)
	}
	return nil
}

func (r *postgresPortfolioRepo) GetByHandle(ctx context.Context, handle string) (*portfolio.Record, error) {
	sql, args, err := psql.
		Select("id", "handle", "identity", "repositories", "calendar", "leetcode", "codeforces", "enriched", "resume_url", "created_at", "updated_at").
		From("portfolios").
		Where(sq.Eq{"handle": handle}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build portfolio query", err)
	}

	rec := &portfolio.Record{}
	var identityBytes, reposBytes []byte
	var calendarBytes, leetcodeBytes, codeforcesBytes, enrichedBytes []byte

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.ID,
		&rec.Handle,
		&identityBytes,
		&reposBytes,
		&calendarBytes,
		&leetcodeBytes,
		&codeforcesBytes,
		&enrichedBytes,
		&rec.ResumeURL,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("portfolio", handle)
		}
		return nil, apperror.NewInternal("failed to query portfolio", err)
	}

	if err := json.Unmarshal(identityBytes, &rec.Identity); err != nil {
		return nil, apperror.NewInternal("failed to unmarshal identity", err)
	}
	if err := json.Unmarshal(reposBytes, &rec.Repositories); err != nil {
		r.logger.Warn("failed to unmarshal repositories", zap.String("handle", handle), zap.Error(err))
		rec.Repositories = []portfolio.RepositoryRef{}
	}
	rec.Calendar = unmarshalNullable[portfolio.ContributionCalendar](r.logger, handle, "calendar", calendarBytes)
	rec.LeetCode = unmarshalNullable[portfolio.JudgeStats](r.logger, handle, "leetcode", leetcodeBytes)
	rec.Codeforces = unmarshalNullable[portfolio.CodeforcesStats](r.logger, handle, "codeforces", codeforcesBytes)
	rec.Enriched = unmarshalNullable[portfolio.EnrichedProfile](r.logger, handle, "enriched", enrichedBytes)

	return rec, nil
}

// marshalNullable maps a nil pointer to SQL NULL instead of the JSON
// literal "null".
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func unmarshalNullable[T any](log logger.Logger, handle, field string, data []byte) *T {
	if len(data) == 0 {
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		log.Warn("failed to unmarshal "+field, zap.String("handle", handle), zap.Error(err))
		return nil
	}
	return v
}
