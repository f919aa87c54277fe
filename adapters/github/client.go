package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/internal/domain/portfolio"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

// Top-N most recently updated repositories kept per handle.
const reposPerPage = 6

type client struct {
	apiBase     string
	graphqlBase string
	token       string
	http        *http.Client
	log         logger.Logger
}

// NewClient builds the repository-host adapter. The *http.Client is shared
// and passed in explicitly; there is no package-level singleton.
func NewClient(cfg config.Config, httpClient *http.Client, log logger.Logger) service.HostService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &client{
		apiBase:     cfg.GitHub.APIBase,
		graphqlBase: cfg.GitHub.GraphQLBase,
		token:       cfg.GitHub.Token,
		http:        httpClient,
		log:         log,
	}
}

type userResponse struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	Email       string `json:"email"`
	Blog        string `json:"blog"`
	Company     string `json:"company"`
	Location    string `json:"location"`
}

type repoResponse struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Homepage    string    `json:"homepage"`
	Language    string    `json:"language"`
	Stargazers  int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	UpdatedAt   time.Time `json:"updated_at"`
	Topics      []string  `json:"topics"`
}

func (c *client) GetProfile(ctx context.Context, handle string) (*portfolio.Identity, error) {
	url := fmt.Sprintf("%s/users/%s", c.apiBase, handle)

	var data userResponse
	if err := c.getJSON(ctx, url, &data); err != nil {
		return nil, err
	}

	name := data.Name
	if name == "" {
		name = data.Login
	}

	return &portfolio.Identity{
		Username:    data.Login,
		Name:        name,
		AvatarURL:   data.AvatarURL,
		Bio:         data.Bio,
		HTMLURL:     data.HTMLURL,
		PublicRepos: data.PublicRepos,
		Followers:   data.Followers,
		Following:   data.Following,
		Email:       data.Email,
		Blog:        data.Blog,
		Company:     data.Company,
		Location:    data.Location,
	}, nil
}

func (c *client) GetRepos(ctx context.Context, handle string) ([]portfolio.RepositoryRef, error) {
	url := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d&type=owner", c.apiBase, handle, reposPerPage)

	var data []repoResponse
	if err := c.getJSON(ctx, url, &data); err != nil {
		return nil, err
	}

	repos := make([]portfolio.RepositoryRef, 0, len(data))
	for _, r := range data {
		lang := r.Language
		if lang == "" {
			lang = "Unknown"
		}
		topics := r.Topics
		if topics == nil {
			topics = []string{}
		}
		repos = append(repos, portfolio.RepositoryRef{
			Name:        r.Name,
			Description: r.Description,
			HTMLURL:     r.HTMLURL,
			HomepageURL: r.Homepage,
			Language:    lang,
			Stars:       r.Stargazers,
			Forks:       r.Forks,
			UpdatedAt:   r.UpdatedAt,
			Topics:      topics,
		})
	}
	return repos, nil
}

const contributionsQuery = `query($login: String!) {
  user(login: $login) {
    contributionsCollection {
      contributionCalendar {
        weeks {
          contributionDays {
            date
            contributionCount
          }
        }
      }
    }
  }
}`

type contributionsResponse struct {
	Data struct {
		User struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					Weeks []struct {
						ContributionDays []struct {
							Date              string `json:"date"`
							ContributionCount int    `json:"contributionCount"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *client) GetContributions(ctx context.Context, handle string) (*portfolio.ContributionCalendar, error) {
	if c.token == "" {
		return nil, apperror.NewConfiguration("GITHUB_TOKEN is required for the contribution calendar")
	}

	body, err := json.Marshal(map[string]any{
		"query":     contributionsQuery,
		"variables": map[string]string{"login": handle},
	})
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal contributions query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlBase, bytes.NewReader(body))
	if err != nil {
		return nil, apperror.NewInternal("failed to build contributions request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewUpstream("GitHub", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp.StatusCode, handle); err != nil {
		return nil, err
	}

	var data contributionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, apperror.NewUpstream("GitHub", fmt.Errorf("decode contributions response: %w", err))
	}
	if len(data.Errors) > 0 {
		return nil, apperror.NewUpstream("GitHub", fmt.Errorf("graphql error: %s", data.Errors[0].Message))
	}

	cal := &portfolio.ContributionCalendar{}
	for _, w := range data.Data.User.ContributionsCollection.ContributionCalendar.Weeks {
		week := portfolio.ContributionWeek{Days: make([]portfolio.ContributionDay, 0, len(w.ContributionDays))}
		for _, d := range w.ContributionDays {
			week.Days = append(week.Days, portfolio.ContributionDay{
				Date:  d.Date,
				Count: d.ContributionCount,
			})
		}
		cal.Weeks = append(cal.Weeks, week)
	}
	cal.Normalize()

	return cal, nil
}

// getJSON performs one GET round-trip with no retry, translating the status
// code into the error taxonomy.
func (c *client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperror.NewInternal("failed to build GitHub request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("GitHub request failed", zap.String("url", url), zap.Error(err))
		return apperror.NewUpstream("GitHub", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp.StatusCode, url); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewUpstream("GitHub", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *client) checkStatus(status int, subject string) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		c.log.Warn("GitHub rate limit hit", zap.String("subject", subject))
		return apperror.NewRateLimited("GitHub")
	case status == http.StatusNotFound:
		return apperror.NewNotFound("GitHub account", subject)
	default:
		return apperror.NewUpstream("GitHub", fmt.Errorf("unexpected status %d", status))
	}
}
