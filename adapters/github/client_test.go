package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*httptest.Server, *client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var cfg config.Config
	cfg.GitHub.APIBase = srv.URL
	cfg.GitHub.GraphQLBase = srv.URL + "/graphql"
	cfg.GitHub.Token = "test-token"

	c := NewClient(cfg, srv.Client(), logger.NewNop()).(*client)
	return srv, c
}

func TestGetProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"login": "octocat",
			"name": "The Octocat",
			"avatar_url": "https://avatars.example/octocat.png",
			"bio": "Mascot",
			"html_url": "https://github.com/octocat",
			"public_repos": 8,
			"followers": 1000,
			"following": 9,
			"company": "GitHub"
		}`))
	})
	_, c := newTestClient(t, mux)

	identity, err := c.GetProfile(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, "octocat", identity.Username)
	assert.Equal(t, "The Octocat", identity.Name)
	assert.Equal(t, 8, identity.PublicRepos)
	assert.Equal(t, "GitHub", identity.Company)
}

func TestGetProfileFallsBackToLoginForEmptyName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login": "octocat"}`))
	})
	_, c := newTestClient(t, mux)

	identity, err := c.GetProfile(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, "octocat", identity.Name)
}

func TestGetProfileRateLimited(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusTooManyRequests} {
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, c := newTestClient(t, mux)

		_, err := c.GetProfile(context.Background(), "octocat")
		assert.True(t, errors.Is(err, apperror.ErrRateLimited), "status=%d", status)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, c := newTestClient(t, mux)

	_, err := c.GetProfile(context.Background(), "ghost")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestGetReposMapsAndBounds(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "6", r.URL.Query().Get("per_page"))
		assert.Equal(t, "owner", r.URL.Query().Get("type"))
		w.Write([]byte(`[
			{"name": "hello-world", "html_url": "https://github.com/octocat/hello-world",
			 "language": "Go", "stargazers_count": 42, "forks_count": 7,
			 "updated_at": "2026-08-01T12:00:00Z", "topics": ["demo"]},
			{"name": "no-lang", "html_url": "https://github.com/octocat/no-lang",
			 "updated_at": "2026-07-01T12:00:00Z"}
		]`))
	})
	_, c := newTestClient(t, mux)

	repos, err := c.GetRepos(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "Go", repos[0].Language)
	assert.Equal(t, 42, repos[0].Stars)
	assert.Equal(t, "Unknown", repos[1].Language)
	assert.NotNil(t, repos[1].Topics)
}

func TestGetReposEmptyListIsNotAnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	_, c := newTestClient(t, mux)

	repos, err := c.GetRepos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestGetContributionsQuantizesLevels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"data": {"user": {"contributionsCollection": {"contributionCalendar": {"weeks": [
			{"contributionDays": [
				{"date": "2026-08-24", "contributionCount": 0},
				{"date": "2026-08-25", "contributionCount": 2},
				{"date": "2026-08-26", "contributionCount": 12}
			]}
		]}}}}}`))
	})
	_, c := newTestClient(t, mux)

	cal, err := c.GetContributions(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, cal.Weeks, 1)
	days := cal.Weeks[0].Days
	assert.Equal(t, []int{0, 1, 4}, []int{days[0].Level, days[1].Level, days[2].Level})
	assert.Equal(t, 14, cal.TotalContributions)
	assert.Equal(t, 2, cal.CurrentStreak)
}

func TestGetContributionsRequiresToken(t *testing.T) {
	var cfg config.Config
	cfg.GitHub.GraphQLBase = "http://127.0.0.1:0/graphql"
	c := NewClient(cfg, nil, logger.NewNop()).(*client)

	_, err := c.GetContributions(context.Background(), "octocat")
	assert.True(t, errors.Is(err, apperror.ErrConfiguration))
}
