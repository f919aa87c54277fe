package http

import (
	"time"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/domain/portfolio"
)

type PortfolioDTO struct {
	Handle       string                          `json:"handle"`
	Identity     portfolio.Identity              `json:"identity"`
	Repositories []portfolio.RepositoryRef       `json:"repositories"`
	Calendar     *portfolio.ContributionCalendar `json:"calendar,omitempty"`
	LeetCode     *portfolio.JudgeStats           `json:"leetcode,omitempty"`
	Codeforces   *portfolio.CodeforcesStats      `json:"codeforces,omitempty"`
	Enriched     portfolio.EnrichedProfile       `json:"enriched"`
	ResumeURL    string                          `json:"resume_url,omitempty"`
	UpdatedAt    time.Time                       `json:"updated_at"`
}

// ToPortfolioDTO flattens a record for the API. A record aggregated without
// a resume has no enrichment; the DTO still renders the section so clients
// never branch on its presence.
func ToPortfolioDTO(rec *portfolio.Record) PortfolioDTO {
	dto := PortfolioDTO{
		Handle:       rec.Handle,
		Identity:     rec.Identity,
		Repositories: rec.Repositories,
		Calendar:     rec.Calendar,
		LeetCode:     rec.LeetCode,
		Codeforces:   rec.Codeforces,
		ResumeURL:    rec.ResumeURL,
		UpdatedAt:    rec.UpdatedAt,
	}
	if dto.Repositories == nil {
		dto.Repositories = []portfolio.RepositoryRef{}
	}
	if rec.Enriched != nil {
		dto.Enriched = *rec.Enriched
	}
	if dto.Enriched.MissingKeywords == nil {
		dto.Enriched.MissingKeywords = []string{}
	}
	if dto.Enriched.Feedback == nil {
		dto.Enriched.Feedback = []string{}
	}
	if dto.Enriched.Skills == nil {
		dto.Enriched.Skills = []string{}
	}
	if dto.Enriched.Experience == nil {
		dto.Enriched.Experience = []portfolio.ExperienceEntry{}
	}
	if dto.Enriched.Education == nil {
		dto.Enriched.Education = []portfolio.EducationEntry{}
	}
	if dto.Enriched.Certifications == nil {
		dto.Enriched.Certifications = []string{}
	}
	return dto
}

type AtsScanResponse struct {
	Score           int      `json:"score"`
	MissingKeywords []string `json:"missing_keywords"`
	Feedback        []string `json:"feedback"`
	Summary         string   `json:"summary"`
	ResumeText      string   `json:"resume_text"`
}

func ToAtsScanResponse(report *service.AtsReport, resumeText string) AtsScanResponse {
	resp := AtsScanResponse{
		Score:           report.Score,
		MissingKeywords: report.MissingKeywords,
		Feedback:        report.Feedback,
		Summary:         report.Summary,
		ResumeText:      resumeText,
	}
	if resp.MissingKeywords == nil {
		resp.MissingKeywords = []string{}
	}
	if resp.Feedback == nil {
		resp.Feedback = []string{}
	}
	return resp
}

type ImproveRequest struct {
	ResumeText      string   `json:"resume_text"`
	MissingKeywords []string `json:"missing_keywords"`
}

type AnalyzeProjectRequest struct {
	Readme string   `json:"readme"`
	Files  []string `json:"files"`
}
