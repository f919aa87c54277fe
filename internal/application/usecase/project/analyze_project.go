package project

import (
	"context"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/pkg/apperror"
)

// AnalyzeUseCase summarizes a repository from its README and file listing.
type AnalyzeUseCase struct {
	enricher service.EnrichmentService
}

func NewAnalyzeUseCase(enricher service.EnrichmentService) *AnalyzeUseCase {
	return &AnalyzeUseCase{enricher: enricher}
}

type AnalyzeInput struct {
	Readme string
	Files  []string
}

func (uc *AnalyzeUseCase) Execute(ctx context.Context, input AnalyzeInput) (*service.ProjectAnalysis, error) {
	if input.Readme == "" {
		return nil, apperror.NewInvalidInput("readme is required", nil)
	}
	return uc.enricher.AnalyzeProject(ctx, input.Readme, input.Files)
}
