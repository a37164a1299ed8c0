package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"angella-backend/internal/models"
	"angella-backend/internal/openai"
	"angella-backend/internal/stylist"
	"angella-backend/internal/submission"
)

const (
	msgAnalysisFailed = "AI 분석 중 오류가 발생했습니다."
	msgServerError    = "서버 오류가 발생했습니다."
)

type AnalyzeHandler struct {
	orchestrator *stylist.Orchestrator
}

func NewAnalyzeHandler(orchestrator *stylist.Orchestrator) *AnalyzeHandler {
	return &AnalyzeHandler{orchestrator: orchestrator}
}

// Analyze godoc
// @Summary     Generate a personalized style report
// @Description Runs the two-stage analysis: a required text report from the user's photo and metrics, plus an optional hairstyle-variation image when style preferences are present. Image-stage failure never fails the request.
// @Tags        analyze
// @Accept      json
// @Produce     json
// @Param       request body models.AnalyzeRequest true "Photo, body metrics and optional style preferences"
// @Success     200 {object} models.AnalyzeResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /analyze [post]
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgServerError})
		return
	}

	sub := submission.Submission{
		Photo:           req.Photo,
		HeightCm:        req.HeightCm,
		WeightKg:        req.WeightKg,
		Style:           req.Style,
		ColorPreference: req.ColorPreference,
		Occasions:       req.Occasions,
	}

	result, err := h.orchestrator.Analyze(c.Request.Context(), sub)
	if err != nil {
		var validationErr *stylist.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: validationErr.Message})
			return
		}

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   msgAnalysisFailed,
				Details: apiErr.Body,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   msgServerError,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.AnalyzeResponse{
		Report:         result.Report,
		HairstyleImage: result.HairstyleImage,
	})
}
