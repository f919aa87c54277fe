package ats

import (
	"context"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/pkg/apperror"
)

// ScanUseCase turns an uploaded resume document into an ATS report. The
// extracted text is returned alongside the report so a caller can feed it
// straight into the improve step without re-uploading the document.
type ScanUseCase struct {
	extractor service.TextExtractor
	enricher  service.EnrichmentService
}

func NewScanUseCase(extractor service.TextExtractor, enricher service.EnrichmentService) *ScanUseCase {
	return &ScanUseCase{extractor: extractor, enricher: enricher}
}

type ScanInput struct {
	Document       []byte
	JobDescription string
}

type ScanOutput struct {
	Report     *service.AtsReport
	ResumeText string
}

func (uc *ScanUseCase) Execute(ctx context.Context, input ScanInput) (*ScanOutput, error) {
	if len(input.Document) == 0 {
		return nil, apperror.NewInvalidInput("resume document is required", nil)
	}
	raw, err := uc.extractor.Extract(input.Document)
	if err != nil {
		return nil, err
	}
	text := uc.extractor.Clean(raw)

	report, err := uc.enricher.ScanResume(ctx, text, input.JobDescription)
	if err != nil {
		return nil, err
	}
	return &ScanOutput{Report: report, ResumeText: text}, nil
}

// ImproveUseCase rewrites resume text around the keywords a scan found
// missing.
type ImproveUseCase struct {
	extractor service.TextExtractor
	enricher  service.EnrichmentService
}

func NewImproveUseCase(extractor service.TextExtractor, enricher service.EnrichmentService) *ImproveUseCase {
	return &ImproveUseCase{extractor: extractor, enricher: enricher}
}

type ImproveInput struct {
	ResumeText      string
	MissingKeywords []string
}

func (uc *ImproveUseCase) Execute(ctx context.Context, input ImproveInput) (*service.ImprovedResume, error) {
	if input.ResumeText == "" {
		return nil, apperror.NewInvalidInput("resume text is required", nil)
	}
	cleaned := uc.extractor.Clean(input.ResumeText)
	return uc.enricher.ImproveResume(ctx, cleaned, input.MissingKeywords)
}
