package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"angella-backend/internal/models"
	"angella-backend/internal/polar"
)

const (
	msgProductIDRequired = "Product ID가 필요합니다."
	msgCheckoutFailed    = "결제 세션 생성 중 오류가 발생했습니다."
)

type CheckoutHandler struct {
	polarClient *polar.Client
}

func NewCheckoutHandler(polarClient *polar.Client) *CheckoutHandler {
	return &CheckoutHandler{polarClient: polarClient}
}

// CreateCheckout godoc
// @Summary     Create a payment checkout session
// @Description Creates a Polar checkout session for the given product and returns the URL the browser should navigate to. A failed creation leaves the client-side draft untouched for a later retry.
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Param       request body models.CheckoutRequest true "Product ID and optional post-payment return URL"
// @Success     200 {object} models.CheckoutResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /checkout [post]
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgServerError})
		return
	}

	if req.ProductID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgProductIDRequired})
		return
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = requestOrigin(c) + "/?success=true"
	}

	session, err := h.polarClient.CreateCheckout(c.Request.Context(), req.ProductID, successURL)
	if err != nil {
		var apiErr *polar.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   msgCheckoutFailed,
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

	c.JSON(http.StatusOK, models.CheckoutResponse{
		CheckoutURL: session.URL,
		CheckoutID:  session.ID,
	})
}

// requestOrigin rebuilds the scheme://host origin the request came in on,
// used as the default base for the post-payment return URL.
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
