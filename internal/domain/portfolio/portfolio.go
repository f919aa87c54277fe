package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Identity is the host-provided view of an account. Re-fetched on every
// aggregation, never patched in place.
type Identity struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	Email       string `json:"email,omitempty"`
	Blog        string `json:"blog,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
}

type RepositoryRef struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	HomepageURL string    `json:"homepage_url,omitempty"`
	Language    string    `json:"language"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	UpdatedAt   time.Time `json:"updated_at"`
	Topics      []string  `json:"topics"`
}

// JudgeStats holds solved-problem counts from the problem-solving judge.
// Contest fields are pointers: nil means the provider that answered cannot
// supply them, which is different from a zero rating.
type JudgeStats struct {
	TotalSolved    int      `json:"total_solved"`
	Ranking        int      `json:"ranking"`
	EasySolved     int      `json:"easy_solved"`
	MediumSolved   int      `json:"medium_solved"`
	HardSolved     int      `json:"hard_solved"`
	ContestRating  *float64 `json:"contest_rating,omitempty"`
	ContestRanking *int     `json:"contest_ranking,omitempty"`
	TotalContests  *int     `json:"total_contests,omitempty"`
}

// CodeforcesStats comes from the rating-based judge. One endpoint, no
// fallback, absence is "no data".
type CodeforcesStats struct {
	Rating    int    `json:"rating"`
	Rank      string `json:"rank"`
	MaxRating int    `json:"max_rating"`
	MaxRank   string `json:"max_rank"`
}

type PersonalInfo struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Summary string `json:"summary"`
}

type ExperienceEntry struct {
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Date        string   `json:"date"`
	Description []string `json:"description"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	School      string `json:"school"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// EnrichedProfile is the validated output of the completion service.
type EnrichedProfile struct {
	AtsScore            int               `json:"ats_score"`
	MissingKeywords     []string          `json:"missing_keywords"`
	Feedback            []string          `json:"feedback"`
	AnalysisSummary     string            `json:"analysis_summary"`
	ProfessionalSummary string            `json:"professional_summary"`
	Skills              []string          `json:"skills"`
	PersonalInfo        *PersonalInfo     `json:"personal_info,omitempty"`
	Experience          []ExperienceEntry `json:"experience"`
	Education           []EducationEntry  `json:"education"`
	Certifications      []string          `json:"certifications"`
	ImprovedResume      string            `json:"improved_resume,omitempty"`
	ImprovedScore       int               `json:"improved_score,omitempty"`
}

// Record is the durable union of everything known about a handle. One row
// per handle; every aggregation replaces fields, it never appends.
type Record struct {
	ID           uuid.UUID             `json:"id"`
	Handle       string                `json:"handle"`
	Identity     Identity              `json:"identity"`
	Repositories []RepositoryRef       `json:"repositories"`
	Calendar     *ContributionCalendar `json:"calendar,omitempty"`
	LeetCode     *JudgeStats           `json:"leetcode,omitempty"`
	Codeforces   *CodeforcesStats      `json:"codeforces,omitempty"`
	Enriched     *EnrichedProfile      `json:"enriched,omitempty"`
	ResumeURL    string                `json:"resume_url,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type Repository interface {
	Upsert(ctx context.Context, record *Record) error
	GetByHandle(ctx context.Context, handle string) (*Record, error)
}
