package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/khoahotran/devfolio/internal/domain/portfolio"
)

// primaryProvider talks to the comprehensive judge API. It is hosted on a
// free tier with cold starts, hence the hard per-call timeout.
type primaryProvider struct {
	base    string
	timeout time.Duration
	http    *http.Client
}

func NewPrimaryProvider(base string, timeout time.Duration, httpClient *http.Client) Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &primaryProvider{base: base, timeout: timeout, http: httpClient}
}

func (p *primaryProvider) Name() string { return "alfa-leetcode-api" }

type primarySolvedResponse struct {
	SolvedProblem int `json:"solvedProblem"`
	EasySolved    int `json:"easySolved"`
	MediumSolved  int `json:"mediumSolved"`
	HardSolved    int `json:"hardSolved"`
}

type primaryContestResponse struct {
	ContestRating        float64 `json:"contestRating"`
	ContestGlobalRanking int     `json:"contestGlobalRanking"`
	TotalContest         int     `json:"totalContest"`
}

// Fetch issues the solved and contest calls concurrently, each bounded by
// the timeout. Any transport failure or timeout on either call voids the
// whole attempt; a non-2xx contest status only leaves the contest fields
// absent.
func (p *primaryProvider) Fetch(ctx context.Context, handle string) (*portfolio.JudgeStats, error) {
	type solvedResult struct {
		data primarySolvedResponse
		err  error
	}
	type contestResult struct {
		data primaryContestResponse
		err  error
	}

	solvedCh := make(chan solvedResult, 1)
	contestCh := make(chan contestResult, 1)

	go func() {
		var data primarySolvedResponse
		err := p.getJSON(ctx, fmt.Sprintf("%s/%s/solved", p.base, handle), &data)
		solvedCh <- solvedResult{data, err}
	}()
	go func() {
		var data primaryContestResponse
		err := p.getJSON(ctx, fmt.Sprintf("%s/%s/contest", p.base, handle), &data)
		contestCh <- contestResult{data, err}
	}()

	solved := <-solvedCh
	contest := <-contestCh

	if solved.err != nil {
		return nil, fmt.Errorf("solved stats: %w", solved.err)
	}
	if contest.err != nil && !isStatusError(contest.err) {
		// A transport failure or timeout voids the whole attempt so the
		// chain can fall back. Only a non-2xx status means "this account
		// has no contest data": the endpoint answered, the fields stay
		// absent.
		return nil, fmt.Errorf("contest stats: %w", contest.err)
	}

	stats := &portfolio.JudgeStats{
		TotalSolved:  solved.data.SolvedProblem,
		EasySolved:   solved.data.EasySolved,
		MediumSolved: solved.data.MediumSolved,
		HardSolved:   solved.data.HardSolved,
	}
	if contest.err == nil {
		rating := contest.data.ContestRating
		ranking := contest.data.ContestGlobalRanking
		total := contest.data.TotalContest
		stats.ContestRating = &rating
		stats.ContestRanking = &ranking
		stats.TotalContests = &total
		stats.Ranking = ranking
	}
	return stats, nil
}

// statusError marks a request the endpoint answered with a non-2xx status,
// as opposed to a transport failure or timeout.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func isStatusError(err error) bool {
	var se *statusError
	return errors.As(err, &se)
}

func (p *primaryProvider) getJSON(ctx context.Context, url string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// fallbackProvider is a structurally different judge API with poorer data:
// it knows solved counts and overall rank but nothing about contests.
type fallbackProvider struct {
	base string
	http *http.Client
}

func NewFallbackProvider(base string, httpClient *http.Client) Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &fallbackProvider{base: base, http: httpClient}
}

func (p *fallbackProvider) Name() string { return "leetcode-stats-api" }

type fallbackResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	TotalSolved  int    `json:"totalSolved"`
	Ranking      int    `json:"ranking"`
	EasySolved   int    `json:"easySolved"`
	MediumSolved int    `json:"mediumSolved"`
	HardSolved   int    `json:"hardSolved"`
}

func (p *fallbackProvider) Fetch(ctx context.Context, handle string) (*portfolio.JudgeStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", p.base, handle), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var data fallbackResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.Status == "error" {
		return nil, fmt.Errorf("provider error: %s", data.Message)
	}

	// Contest fields stay nil: this provider cannot supply them, and a
	// zero rating would mean something it does not.
	return &portfolio.JudgeStats{
		TotalSolved:  data.TotalSolved,
		Ranking:      data.Ranking,
		EasySolved:   data.EasySolved,
		MediumSolved: data.MediumSolved,
		HardSolved:   data.HardSolved,
	}, nil
}
