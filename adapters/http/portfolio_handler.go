package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devfolio/internal/application/usecase/aggregate"
	"github.com/khoahotran/devfolio/internal/application/usecase/portfolioread"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

const maxResumeBytes = 5 << 20

type PortfolioHandler struct {
	aggregateUC *aggregate.AggregateUseCase
	getUC       *portfolioread.GetPortfolioUseCase
	logger      logger.Logger
}

func NewPortfolioHandler(aggregateUC *aggregate.AggregateUseCase, getUC *portfolioread.GetPortfolioUseCase, log logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		aggregateUC: aggregateUC,
		getUC:       getUC,
		logger:      log,
	}
}

// Generate runs a full aggregation for a handle. The resume document is an
// optional multipart file; judge handles and the job description are plain
// form fields.
func (h *PortfolioHandler) Generate(c *gin.Context) {
	handle := c.Param("handle")

	var resumeDoc []byte
	fileHeader, err := c.FormFile("resume")
	if err == nil {
		if fileHeader.Size > maxResumeBytes {
			c.Error(apperror.NewInvalidInput("resume file exceeds the 5MB limit", nil))
			return
		}
		file, openErr := fileHeader.Open()
		if openErr != nil {
			c.Error(apperror.NewInternal("failed to open uploaded resume", openErr))
			return
		}
		defer file.Close()
		resumeDoc, err = io.ReadAll(io.LimitReader(file, maxResumeBytes))
		if err != nil {
			c.Error(apperror.NewInternal("failed to read uploaded resume", err))
			return
		}
	}

	input := aggregate.AggregateInput{
		Handle:           handle,
		ResumeDocument:   resumeDoc,
		JobDescription:   c.PostForm("job_description"),
		LeetCodeHandle:   c.PostForm("leetcode_handle"),
		CodeforcesHandle: c.PostForm("codeforces_handle"),
	}
	output, err := h.aggregateUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToPortfolioDTO(output.Record))
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	rec, err := h.getUC.Execute(c.Request.Context(), c.Param("handle"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPortfolioDTO(rec))
}
