package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devfolio/internal/application/usecase/project"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type ProjectHandler struct {
	analyzeUC *project.AnalyzeUseCase
	logger    logger.Logger
}

func NewProjectHandler(analyzeUC *project.AnalyzeUseCase, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		analyzeUC: analyzeUC,
		logger:    log,
	}
}

func (h *ProjectHandler) Analyze(c *gin.Context) {
	var req AnalyzeProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for project analysis", err))
		return
	}

	input := project.AnalyzeInput{
		Readme: req.Readme,
		Files:  req.Files,
	}
	output, err := h.analyzeUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, output)
}
