package resume

import (
	"bytes"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type pdfExtractor struct {
	log logger.Logger
}

func NewPDFExtractor(log logger.Logger) service.TextExtractor {
	return &pdfExtractor{log: log}
}

// Extract converts a PDF document to plain text. Absence of resume text is
// a valid degraded state, so parse failures return ("", nil) with a logged
// cause. Only an empty input is an error: that is a caller bug, not a bad
// document.
func (e *pdfExtractor) Extract(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", apperror.NewInvalidInput("resume document is empty", nil)
	}

	// The parser is third-party code fed attacker-controlled bytes; keep
	// its panics inside this boundary.
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("pdf parser panicked", zap.Any("cause", r))
			text, err = "", nil
		}
	}()

	reader, parseErr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if parseErr != nil {
		e.log.Warn("pdf not parseable, degrading to empty text", zap.Error(parseErr))
		return "", nil
	}

	plain, plainErr := reader.GetPlainText()
	if plainErr != nil {
		e.log.Warn("pdf text extraction failed, degrading to empty text", zap.Error(plainErr))
		return "", nil
	}

	var buf bytes.Buffer
	if _, copyErr := buf.ReadFrom(plain); copyErr != nil {
		e.log.Warn("pdf text read failed, degrading to empty text", zap.Error(copyErr))
		return "", nil
	}

	e.log.Info("resume text extracted", zap.Int("chars", buf.Len()))
	return buf.String(), nil
}
