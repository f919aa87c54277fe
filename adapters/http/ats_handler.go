package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devfolio/internal/application/usecase/ats"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type AtsHandler struct {
	scanUC    *ats.ScanUseCase
	improveUC *ats.ImproveUseCase
	logger    logger.Logger
}

func NewAtsHandler(scanUC *ats.ScanUseCase, improveUC *ats.ImproveUseCase, log logger.Logger) *AtsHandler {
	return &AtsHandler{
		scanUC:    scanUC,
		improveUC: improveUC,
		logger:    log,
	}
}

func (h *AtsHandler) Scan(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'resume' file is required", err))
		return
	}
	if fileHeader.Size > maxResumeBytes {
		c.Error(apperror.NewInvalidInput("resume file exceeds the 5MB limit", nil))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open uploaded resume", err))
		return
	}
	defer file.Close()
	doc, err := io.ReadAll(io.LimitReader(file, maxResumeBytes))
	if err != nil {
		c.Error(apperror.NewInternal("failed to read uploaded resume", err))
		return
	}

	input := ats.ScanInput{
		Document:       doc,
		JobDescription: c.PostForm("job_description"),
	}
	output, err := h.scanUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToAtsScanResponse(output.Report, output.ResumeText))
}

func (h *AtsHandler) Improve(c *gin.Context) {
	var req ImproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for resume improvement", err))
		return
	}

	input := ats.ImproveInput{
		ResumeText:      req.ResumeText,
		MissingKeywords: req.MissingKeywords,
	}
	output, err := h.improveUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, output)
}
