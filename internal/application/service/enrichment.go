package service

import (
	"context"

	"github.com/khoahotran/devfolio/internal/domain/portfolio"
)

// AtsReport is the outcome of one ATS compatibility scan. Recovered marks
// results whose JSON had to be extracted from surrounding text, Fallback
// marks the deterministic default used when parsing failed entirely.
type AtsReport struct {
	Score           int      `json:"score"`
	MissingKeywords []string `json:"missing_keywords"`
	Feedback        []string `json:"feedback"`
	Summary         string   `json:"summary"`
	Recovered       bool     `json:"-"`
	Fallback        bool     `json:"-"`
}

type StructuredResume struct {
	PersonalInfo portfolio.PersonalInfo      `json:"personal_info"`
	Experience   []portfolio.ExperienceEntry `json:"experience"`
	Education    []portfolio.EducationEntry  `json:"education"`
	Skills       []string                    `json:"skills"`
}

type ImprovedResume struct {
	ImprovedResume string            `json:"improved_resume"`
	Structured     *StructuredResume `json:"structured_resume,omitempty"`
	ImprovedScore  int               `json:"improved_score"`
	Recovered      bool              `json:"-"`
}

type ProjectAnalysis struct {
	Score        int      `json:"score"`
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	Improvements []string `json:"improvements"`
	Recovered    bool     `json:"-"`
	Fallback     bool     `json:"-"`
}

// EnrichmentService wraps the text-completion provider. Scoring operations
// degrade to deterministic fallbacks on malformed output; ImproveResume has
// no safe fallback and returns an error instead.
type EnrichmentService interface {
	ScanResume(ctx context.Context, resumeText, jobDescription string) (*AtsReport, error)
	ImproveResume(ctx context.Context, cleanedText string, missingKeywords []string) (*ImprovedResume, error)
	AnalyzeProject(ctx context.Context, readme string, files []string) (*ProjectAnalysis, error)
	GenerateSummary(ctx context.Context, bio string, skills []string) (string, error)
}
