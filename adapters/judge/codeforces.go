package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/domain/portfolio"
	"github.com/khoahotran/devfolio/pkg/logger"
)

// codeforcesClient queries the rating-based judge. Single endpoint, no
// fallback; every failure degrades to "no data".
type codeforcesClient struct {
	base string
	http *http.Client
	log  logger.Logger
}

func NewCodeforcesClient(base string, httpClient *http.Client, log logger.Logger) service.RatingService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &codeforcesClient{base: base, http: httpClient, log: log}
}

type codeforcesResponse struct {
	Status string `json:"status"`
	Result []struct {
		Rating    int    `json:"rating"`
		Rank      string `json:"rank"`
		MaxRating int    `json:"maxRating"`
		MaxRank   string `json:"maxRank"`
	} `json:"result"`
}

func (c *codeforcesClient) Fetch(ctx context.Context, handle string) (*portfolio.CodeforcesStats, error) {
	url := fmt.Sprintf("%s/api/user.info?handles=%s", c.base, handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("codeforces request failed", zap.String("handle", handle), zap.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("codeforces returned non-OK status",
			zap.String("handle", handle), zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var data codeforcesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.log.Warn("codeforces response not decodable", zap.String("handle", handle), zap.Error(err))
		return nil, nil
	}
	if data.Status != "OK" || len(data.Result) == 0 {
		return nil, nil
	}

	u := data.Result[0]
	return &portfolio.CodeforcesStats{
		Rating:    u.Rating,
		Rank:      u.Rank,
		MaxRating: u.MaxRating,
		MaxRank:   u.MaxRank,
	}, nil
}
