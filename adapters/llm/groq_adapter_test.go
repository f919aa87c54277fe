package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

const sampleResume = "Experienced backend engineer with eight years of Go, PostgreSQL and Kafka in production systems."

// newFakeGroq serves the OpenAI-compatible chat endpoint, replying with the
// given assistant content, and counts requests.
func newFakeGroq(t *testing.T, content string) (*groqAdapter, *int32) {
	t.Helper()
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	var cfg config.Config
	cfg.Groq.APIKey = "test-key"
	cfg.Groq.BaseURL = srv.URL + "/v1"
	cfg.Groq.ScanModel = "scan-model"
	cfg.Groq.WriteModel = "write-model"

	svc, err := NewGroqAdapter(cfg, logger.NewNop())
	require.NoError(t, err)
	return svc.(*groqAdapter), &calls
}

func TestNewGroqAdapterRequiresKey(t *testing.T) {
	var cfg config.Config
	_, err := NewGroqAdapter(cfg, logger.NewNop())
	assert.True(t, errors.Is(err, apperror.ErrConfiguration))
}

func TestScanResumeParsesCleanResponse(t *testing.T) {
	a, _ := newFakeGroq(t, `{"score": 81, "missingKeywords": ["Docker"], "feedback": ["Quantify impact"], "summary": "Solid resume"}`)

	report, err := a.ScanResume(context.Background(), sampleResume, "")
	require.NoError(t, err)
	assert.Equal(t, 81, report.Score)
	assert.Equal(t, []string{"Docker"}, report.MissingKeywords)
	assert.False(t, report.Recovered)
	assert.False(t, report.Fallback)
}

func TestScanResumeRecoversFencedResponse(t *testing.T) {
	a, _ := newFakeGroq(t, "```json\n{\"score\":72,\"missingKeywords\":[],\"feedback\":[],\"summary\":\"ok\"}\n```")

	report, err := a.ScanResume(context.Background(), sampleResume, "")
	require.NoError(t, err)
	assert.Equal(t, 72, report.Score)
	assert.True(t, report.Recovered)
}

func TestScanResumeFallsBackOnGarbage(t *testing.T) {
	a, _ := newFakeGroq(t, "I am sorry, I cannot help with that.")

	report, err := a.ScanResume(context.Background(), sampleResume, "")
	require.NoError(t, err)
	assert.True(t, report.Fallback)
	assert.Equal(t, 50, report.Score)
	assert.NotEmpty(t, report.Feedback)
}

func TestScanResumeClampsScore(t *testing.T) {
	a, _ := newFakeGroq(t, `{"score": 140, "missingKeywords": [], "feedback": [], "summary": ""}`)

	report, err := a.ScanResume(context.Background(), sampleResume, "")
	require.NoError(t, err)
	assert.Equal(t, 100, report.Score)
}

func TestScanResumeRejectsShortTextBeforeCalling(t *testing.T) {
	a, calls := newFakeGroq(t, `{}`)

	_, err := a.ScanResume(context.Background(), "short doc", "")
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
	assert.EqualValues(t, 0, *calls, "short text must never reach the completion service")
}

func TestImproveResumeSuccess(t *testing.T) {
	a, _ := newFakeGroq(t, `{
		"improvedResume": "JANE DOE\nSpearheaded the migration...",
		"structuredResume": {
			"personalInfo": {"name": "Jane Doe", "contact": "jane@example.com", "summary": "Engineer"},
			"experience": [{"role": "Engineer", "company": "Initech", "date": "2020-2024", "description": ["Built services"]}],
			"education": [{"degree": "BSc", "school": "State University", "date": "2016-2020", "description": ""}],
			"skills": ["Go", "Kafka"]
		},
		"improvedScore": 91
	}`)

	out, err := a.ImproveResume(context.Background(), sampleResume, []string{"Docker"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.ImprovedResume, "JANE DOE"))
	assert.Equal(t, 91, out.ImprovedScore)
	require.NotNil(t, out.Structured)
	assert.Equal(t, "Jane Doe", out.Structured.PersonalInfo.Name)
	assert.Equal(t, []string{"Go", "Kafka"}, out.Structured.Skills)
}

func TestImproveResumeDefaultsScore(t *testing.T) {
	a, _ := newFakeGroq(t, `{"improvedResume": "text"}`)

	out, err := a.ImproveResume(context.Background(), sampleResume, nil)
	require.NoError(t, err)
	assert.Equal(t, 85, out.ImprovedScore)
	assert.Nil(t, out.Structured)
}

func TestImproveResumeMissingFieldIsFatal(t *testing.T) {
	a, _ := newFakeGroq(t, `{"improvedScore": 90}`)

	_, err := a.ImproveResume(context.Background(), sampleResume, nil)
	assert.True(t, errors.Is(err, apperror.ErrEnrichment))
}

func TestImproveResumeParseFailureIsFatal(t *testing.T) {
	a, _ := newFakeGroq(t, "not json at all, sorry")

	_, err := a.ImproveResume(context.Background(), sampleResume, nil)
	assert.True(t, errors.Is(err, apperror.ErrEnrichment))
}

func TestAnalyzeProject(t *testing.T) {
	a, _ := newFakeGroq(t, `{"score": 76, "summary": "Well documented", "strengths": ["CI"], "weaknesses": [], "improvements": ["Add benchmarks"]}`)

	out, err := a.AnalyzeProject(context.Background(), "# My Project\nDoes things.", []string{"main.go", "go.mod"})
	require.NoError(t, err)
	assert.Equal(t, 76, out.Score)
	assert.Equal(t, []string{"CI"}, out.Strengths)
	assert.NotNil(t, out.Weaknesses)
}

func TestAnalyzeProjectFallbackOnGarbage(t *testing.T) {
	a, _ := newFakeGroq(t, "```\nnope\n```")

	out, err := a.AnalyzeProject(context.Background(), "# readme", nil)
	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.Equal(t, 50, out.Score)
}

func TestGenerateSummaryStripsFences(t *testing.T) {
	a, _ := newFakeGroq(t, "```\nA seasoned engineer who ships.\n```")

	out, err := a.GenerateSummary(context.Background(), "I build things", []string{"Go"})
	require.NoError(t, err)
	assert.Equal(t, "A seasoned engineer who ships.", out)
}

func TestConfiguredTimeoutBoundsHungProvider(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var cfg config.Config
	cfg.Groq.APIKey = "test-key"
	cfg.Groq.BaseURL = srv.URL + "/v1"
	cfg.Groq.Timeout = 100 * time.Millisecond
	svc, err := NewGroqAdapter(cfg, logger.NewNop())
	require.NoError(t, err)

	start := time.Now()
	_, err = svc.ScanResume(context.Background(), sampleResume, "")
	assert.True(t, errors.Is(err, apperror.ErrUpstream))
	assert.Less(t, time.Since(start), time.Second, "call must be cut off at the configured timeout")
}

func TestTransportErrorsPropagate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit reached"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var cfg config.Config
	cfg.Groq.APIKey = "test-key"
	cfg.Groq.BaseURL = srv.URL + "/v1"
	svc, err := NewGroqAdapter(cfg, logger.NewNop())
	require.NoError(t, err)

	_, err = svc.ScanResume(context.Background(), sampleResume, "")
	assert.True(t, errors.Is(err, apperror.ErrUpstream))
}
