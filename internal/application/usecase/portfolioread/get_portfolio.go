package portfolioread

import (
	"context"

	"github.com/khoahotran/devfolio/internal/domain/portfolio"
	"github.com/khoahotran/devfolio/pkg/apperror"
)

// GetPortfolioUseCase serves the stored record for a handle. Reads go
// through the repository only; no upstream source is touched.
type GetPortfolioUseCase struct {
	repo portfolio.Repository
}

func NewGetPortfolioUseCase(repo portfolio.Repository) *GetPortfolioUseCase {
	return &GetPortfolioUseCase{repo: repo}
}

func (uc *GetPortfolioUseCase) Execute(ctx context.Context, handle string) (*portfolio.Record, error) {
	if handle == "" {
		return nil, apperror.NewInvalidInput("handle is required", nil)
	}
	return uc.repo.GetByHandle(ctx, handle)
}
