package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/internal/domain/portfolio"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

const (
	// minResumeChars rejects extraction noise before spending tokens on it.
	minResumeChars = 50
	// maxScanChars bounds the resume text sent to the scanner prompt.
	maxScanChars = 10000

	defaultJobDescription = "General Software Engineering Role"
	fallbackAtsScore      = 50
	defaultImprovedScore  = 85
)

type groqAdapter struct {
	client     *openai.Client
	scanModel  string
	writeModel string
	log        logger.Logger
}

// NewGroqAdapter builds the completion-service client. Groq speaks the
// OpenAI chat API, so the shared client just points at its base URL.
func NewGroqAdapter(cfg config.Config, log logger.Logger) (service.EnrichmentService, error) {
	if cfg.Groq.APIKey == "" {
		return nil, apperror.NewConfiguration("GROQ_API_KEY is required for AI enrichment")
	}

	timeout := cfg.Groq.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.Groq.APIKey)
	clientConfig.BaseURL = cfg.Groq.BaseURL
	// A hung provider must not hang the request with it.
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	log.Info("Groq enrichment adapter initialized",
		zap.String("base_url", cfg.Groq.BaseURL),
		zap.Duration("timeout", timeout))
	return &groqAdapter{
		client:     openai.NewClientWithConfig(clientConfig),
		scanModel:  cfg.Groq.ScanModel,
		writeModel: cfg.Groq.WriteModel,
		log:        log,
	}, nil
}

func (a *groqAdapter) complete(ctx context.Context, model, system, user string, temperature float32, maxTokens int, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	// No retry here: completion calls are not idempotent-safe to repeat
	// (token cost, latency), so transport and rate-limit errors propagate.
	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", apperror.NewUpstream("completion service", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperror.NewUpstream("completion service", fmt.Errorf("no completion choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}

type atsPayload struct {
	Score           int      `json:"score"`
	MissingKeywords []string `json:"missingKeywords"`
	Feedback        []string `json:"feedback"`
	Summary         string   `json:"summary"`
}

func (a *groqAdapter) ScanResume(ctx context.Context, resumeText, jobDescription string) (*service.AtsReport, error) {
	if len(resumeText) < minResumeChars {
		return nil, apperror.NewInsufficientText(len(resumeText))
	}
	if len(resumeText) > maxScanChars {
		resumeText = resumeText[:maxScanChars]
	}
	if jobDescription == "" {
		jobDescription = defaultJobDescription
	}

	raw, err := a.complete(ctx, a.scanModel, atsSystemPrompt,
		fmt.Sprintf(atsUserPrompt, resumeText, jobDescription), 0.3, 0, true)
	if err != nil {
		return nil, err
	}

	var payload atsPayload
	mode, decodeErr := Decode(raw, &payload)
	if decodeErr != nil {
		a.log.Warn("ATS scan output unparseable, serving fallback", zap.Error(decodeErr))
		return &service.AtsReport{
			Score:           fallbackAtsScore,
			MissingKeywords: []string{"Error parsing AI response"},
			Feedback:        []string{"Please try again. The AI response was not in the expected format."},
			Summary:         "Analysis partially completed but formatting failed.",
			Fallback:        true,
		}, nil
	}
	if mode == ParseRecovered {
		a.log.Info("ATS scan output recovered from wrapped JSON")
	}

	return &service.AtsReport{
		Score:           clampScore(payload.Score),
		MissingKeywords: orEmpty(payload.MissingKeywords),
		Feedback:        orEmpty(payload.Feedback),
		Summary:         payload.Summary,
		Recovered:       mode == ParseRecovered,
	}, nil
}

type improvePayload struct {
	ImprovedResume   string `json:"improvedResume"`
	StructuredResume *struct {
		PersonalInfo portfolio.PersonalInfo      `json:"personalInfo"`
		Experience   []portfolio.ExperienceEntry `json:"experience"`
		Education    []portfolio.EducationEntry  `json:"education"`
		Skills       []string                    `json:"skills"`
	} `json:"structuredResume"`
	ImprovedScore int `json:"improvedScore"`
}

func (a *groqAdapter) ImproveResume(ctx context.Context, cleanedText string, missingKeywords []string) (*service.ImprovedResume, error) {
	if strings.TrimSpace(cleanedText) == "" {
		return nil, apperror.NewInvalidInput("resume text is required", nil)
	}

	keywords := "None"
	if len(missingKeywords) > 0 {
		keywords = strings.Join(missingKeywords, ", ")
	}

	raw, err := a.complete(ctx, a.writeModel, improveSystemPrompt,
		fmt.Sprintf(improveUserPrompt, cleanedText, keywords), 0.5, 4000, true)
	if err != nil {
		return nil, err
	}
	if len(raw) < 10 {
		return nil, apperror.NewEnrichment("completion service returned an empty response", nil)
	}

	var payload improvePayload
	mode, decodeErr := Decode(raw, &payload)
	if decodeErr != nil {
		// Rewriting has no safe synthetic fallback, so a parse failure is
		// surfaced to the caller instead of a default document.
		return nil, apperror.NewEnrichment("completion output was not valid JSON", decodeErr)
	}
	if payload.ImprovedResume == "" {
		a.log.Error("completion output parsed but lacks improvedResume", nil)
		return nil, apperror.NewEnrichment("completion output is missing the improved resume text", nil)
	}
	if mode == ParseRecovered {
		a.log.Info("resume improvement output recovered from wrapped JSON")
	}

	result := &service.ImprovedResume{
		ImprovedResume: payload.ImprovedResume,
		ImprovedScore:  payload.ImprovedScore,
		Recovered:      mode == ParseRecovered,
	}
	if result.ImprovedScore == 0 {
		result.ImprovedScore = defaultImprovedScore
	}
	if payload.StructuredResume != nil {
		result.Structured = &service.StructuredResume{
			PersonalInfo: payload.StructuredResume.PersonalInfo,
			Experience:   payload.StructuredResume.Experience,
			Education:    payload.StructuredResume.Education,
			Skills:       payload.StructuredResume.Skills,
		}
	}
	return result, nil
}

type analyzePayload struct {
	Score        int      `json:"score"`
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	Improvements []string `json:"improvements"`
}

func (a *groqAdapter) AnalyzeProject(ctx context.Context, readme string, files []string) (*service.ProjectAnalysis, error) {
	if strings.TrimSpace(readme) == "" {
		return nil, apperror.NewInvalidInput("project documentation is required", nil)
	}
	if len(readme) > maxScanChars {
		readme = readme[:maxScanChars]
	}

	listing := "(no file listing available)"
	if len(files) > 0 {
		listing = strings.Join(files, "\n")
	}

	raw, err := a.complete(ctx, a.scanModel, analyzeSystemPrompt,
		fmt.Sprintf(analyzeUserPrompt, readme, listing), 0.3, 0, true)
	if err != nil {
		return nil, err
	}

	var payload analyzePayload
	mode, decodeErr := Decode(raw, &payload)
	if decodeErr != nil {
		a.log.Warn("project analysis output unparseable, serving fallback", zap.Error(decodeErr))
		return &service.ProjectAnalysis{
			Score:    fallbackAtsScore,
			Summary:  "Analysis partially completed but formatting failed.",
			Fallback: true,
		}, nil
	}
	if mode == ParseRecovered {
		a.log.Info("project analysis output recovered from wrapped JSON")
	}

	return &service.ProjectAnalysis{
		Score:        clampScore(payload.Score),
		Summary:      payload.Summary,
		Strengths:    orEmpty(payload.Strengths),
		Weaknesses:   orEmpty(payload.Weaknesses),
		Improvements: orEmpty(payload.Improvements),
		Recovered:    mode == ParseRecovered,
	}, nil
}

func (a *groqAdapter) GenerateSummary(ctx context.Context, bio string, skills []string) (string, error) {
	raw, err := a.complete(ctx, a.writeModel, summarySystemPrompt,
		fmt.Sprintf(summaryUserPrompt, bio, strings.Join(skills, ", ")), 0.7, 300, false)
	if err != nil {
		return "", err
	}
	return stripFences(raw), nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
