package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexmerge/internal/parser"
	"lexmerge/internal/service"
)

// ReviewHandler exposes the record checks.
type ReviewHandler struct {
	reviews service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CheckSession handles GET /api/v1/sessions/:id/checks
func (h *ReviewHandler) CheckSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, err := h.reviews.CheckSession(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}

// Check handles POST /api/v1/checks with a JSON record body.
func (h *ReviewHandler) Check(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body")
		return
	}
	record, err := parser.ParseRecordJSON(body)
	if err != nil {
		HandleError(c, err)
		return
	}
	report, err := h.reviews.CheckRecord(c.Request.Context(), record)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}
