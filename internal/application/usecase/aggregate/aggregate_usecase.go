package aggregate

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/domain/portfolio"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

const resumeFolder = "resumes"

// AggregateUseCase fans out to every data source for one handle, joins the
// results, runs AI enrichment on the merged material and persists the
// reconciled record.
type AggregateUseCase struct {
	host      service.HostService
	solved    service.SolvedStatsService
	rating    service.RatingService
	extractor service.TextExtractor
	enricher  service.EnrichmentService
	uploader  service.Uploader
	events    service.EventPublisher
	repo      portfolio.Repository
	logger    logger.Logger
}

// NewAggregateUseCase wires the pipeline. uploader and events are optional:
// archival and event emission are best-effort side channels.
func NewAggregateUseCase(
	host service.HostService,
	solved service.SolvedStatsService,
	rating service.RatingService,
	extractor service.TextExtractor,
	enricher service.EnrichmentService,
	uploader service.Uploader,
	events service.EventPublisher,
	repo portfolio.Repository,
	log logger.Logger,
) *AggregateUseCase {
	return &AggregateUseCase{
		host:      host,
		solved:    solved,
		rating:    rating,
		extractor: extractor,
		enricher:  enricher,
		uploader:  uploader,
		events:    events,
		repo:      repo,
		logger:    log,
	}
}

type AggregateInput struct {
	Handle           string
	ResumeDocument   []byte
	JobDescription   string
	LeetCodeHandle   string
	CodeforcesHandle string
}

type AggregateOutput struct {
	Record *portfolio.Record
}

type sourceResults struct {
	identity    *portfolio.Identity
	identityErr error
	repos       []portfolio.RepositoryRef
	reposErr    error
	calendar    *portfolio.ContributionCalendar
	calendarErr error
	leetcode    *portfolio.JudgeStats
	codeforces  *portfolio.CodeforcesStats
}

func (uc *AggregateUseCase) Execute(ctx context.Context, input AggregateInput) (*AggregateOutput, error) {
	if input.Handle == "" {
		return nil, apperror.NewInvalidInput("handle is required", nil)
	}
	l := uc.logger.With(zap.String("handle", input.Handle))
	l.Info("aggregation started")

	results := uc.fetchSources(ctx, input)

	// Identity is mandatory: without it there is nothing to build a
	// record around, so its failure fails the whole aggregation.
	if results.identityErr != nil {
		return nil, results.identityErr
	}
	if results.reposErr != nil {
		l.Warn("repository list unavailable, continuing with empty list", zap.Error(results.reposErr))
		results.repos = []portfolio.RepositoryRef{}
	}
	if results.calendarErr != nil {
		l.Warn("contribution calendar unavailable, continuing without it", zap.Error(results.calendarErr))
		results.calendar = nil
	}

	resumeText := uc.extractResume(ctx, input, l)

	enriched, err := uc.enrich(ctx, results, resumeText, input.JobDescription, l)
	if err != nil {
		return nil, err
	}

	rec := &portfolio.Record{
		Handle:       input.Handle,
		Identity:     *results.identity,
		Repositories: results.repos,
		Calendar:     results.calendar,
		LeetCode:     results.leetcode,
		Codeforces:   results.codeforces,
		Enriched:     enriched,
	}

	if len(input.ResumeDocument) > 0 && uc.uploader != nil {
		url, uploadErr := uc.uploader.Upload(ctx, bytes.NewReader(input.ResumeDocument), resumeFolder, input.Handle)
		if uploadErr != nil {
			l.Warn("resume archival failed", zap.Error(uploadErr))
		} else {
			rec.ResumeURL = url
		}
	}

	if err := uc.repo.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	if uc.events != nil {
		if pubErr := uc.events.PublishProfileAggregated(ctx, input.Handle); pubErr != nil {
			l.Warn("profile event publish failed", zap.Error(pubErr))
		}
	}

	l.Info("aggregation finished",
		zap.Int("repos", len(rec.Repositories)),
		zap.Bool("has_calendar", rec.Calendar != nil),
		zap.Bool("has_leetcode", rec.LeetCode != nil),
		zap.Bool("has_codeforces", rec.Codeforces != nil),
		zap.Bool("enriched", rec.Enriched != nil),
	)
	return &AggregateOutput{Record: rec}, nil
}

// fetchSources runs every external read concurrently and joins them. The
// reads are independent; nothing here waits on anything but its own call.
func (uc *AggregateUseCase) fetchSources(ctx context.Context, input AggregateInput) *sourceResults {
	results := &sourceResults{}
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		results.identity, results.identityErr = uc.host.GetProfile(ctx, input.Handle)
	}()
	go func() {
		defer wg.Done()
		results.repos, results.reposErr = uc.host.GetRepos(ctx, input.Handle)
	}()
	go func() {
		defer wg.Done()
		results.calendar, results.calendarErr = uc.host.GetContributions(ctx, input.Handle)
	}()

	if input.LeetCodeHandle != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Chain exhaustion yields (nil, nil): no presence on the
			// judge is a legitimate state, not a failure.
			results.leetcode, _ = uc.solved.Fetch(ctx, input.LeetCodeHandle)
		}()
	}
	if input.CodeforcesHandle != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results.codeforces, _ = uc.rating.Fetch(ctx, input.CodeforcesHandle)
		}()
	}

	wg.Wait()
	return results
}

func (uc *AggregateUseCase) extractResume(ctx context.Context, input AggregateInput, l logger.Logger) string {
	if len(input.ResumeDocument) == 0 {
		return ""
	}
	raw, err := uc.extractor.Extract(input.ResumeDocument)
	if err != nil {
		l.Warn("resume extraction rejected the document", zap.Error(err))
		return ""
	}
	return uc.extractor.Clean(raw)
}

// enrich runs the completion-service steps on the merged raw material.
// No resume text means no enrichment: the record stays useful without it
// and the token spend is skipped entirely.
func (uc *AggregateUseCase) enrich(ctx context.Context, results *sourceResults, resumeText, jobDescription string, l logger.Logger) (*portfolio.EnrichedProfile, error) {
	if resumeText == "" || uc.enricher == nil {
		return nil, nil
	}

	scan, err := uc.enricher.ScanResume(ctx, resumeText, jobDescription)
	if err != nil {
		// Text too short to analyze is the same degraded state as no text
		// at all: the record stays useful without enrichment. Provider and
		// configuration errors still fail the run.
		if errors.Is(err, apperror.ErrInvalidInput) {
			l.Warn("resume text unusable for enrichment, skipping", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	if scan.Fallback {
		l.Warn("ATS scan served its deterministic fallback")
	}

	skills := mergeSkills(results.repos, nil)

	summary, err := uc.enricher.GenerateSummary(ctx, results.identity.Bio, skills)
	if err != nil {
		// The summary has a sensible empty default; the scan does not
		// get thrown away over it.
		l.Warn("professional summary generation failed", zap.Error(err))
		summary = ""
	}

	return &portfolio.EnrichedProfile{
		AtsScore:        scan.Score,
		MissingKeywords: scan.MissingKeywords,
		Feedback:        scan.Feedback,
		AnalysisSummary: scan.Summary,

		ProfessionalSummary: summary,
		Skills:              skills,
		Experience:          []portfolio.ExperienceEntry{},
		Education:           []portfolio.EducationEntry{},
		Certifications:      []string{},
	}, nil
}

// mergeSkills unions repository languages with resume skills, preserving
// first-seen order. "Unknown" is a placeholder language, not a skill.
func mergeSkills(repos []portfolio.RepositoryRef, resumeSkills []string) []string {
	seen := make(map[string]bool)
	skills := []string{}
	add := func(s string) {
		if s == "" || s == "Unknown" || seen[s] {
			return
		}
		seen[s] = true
		skills = append(skills, s)
	}
	for _, r := range repos {
		add(r.Language)
	}
	for _, s := range resumeSkills {
		add(s)
	}
	return skills
}
