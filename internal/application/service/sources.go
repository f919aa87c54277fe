package service

import (
	"context"

	"github.com/khoahotran/devfolio/internal/domain/portfolio"
)

// HostService reads one account from the repository-hosting API. The three
// operations are independent and safe to run concurrently.
type HostService interface {
	GetProfile(ctx context.Context, handle string) (*portfolio.Identity, error)
	GetRepos(ctx context.Context, handle string) ([]portfolio.RepositoryRef, error)
	GetContributions(ctx context.Context, handle string) (*portfolio.ContributionCalendar, error)
}

// SolvedStatsService resolves solved-problem stats for a judge handle.
// (nil, nil) means the handle has no usable data on any provider.
type SolvedStatsService interface {
	Fetch(ctx context.Context, handle string) (*portfolio.JudgeStats, error)
}

// RatingService resolves the rating-based judge. (nil, nil) means no data.
type RatingService interface {
	Fetch(ctx context.Context, handle string) (*portfolio.CodeforcesStats, error)
}

// TextExtractor converts an uploaded document into plain text. Parse
// failures degrade to an empty string, they never panic past the boundary.
// Clean normalizes extracted text for the completion service and is
// idempotent.
type TextExtractor interface {
	Extract(data []byte) (string, error)
	Clean(text string) string
}
