package handler

import (
	"context"
	"net/http"

	"vet-hospital-api/internal/models"
	"vet-hospital-api/internal/service"

	"github.com/gin-gonic/gin"
)

// RecommendHandler handles raw-registry keyword scans for chat collaborators
type RecommendHandler struct {
	service RecommendService
}

// Service interface for dependency injection
type RecommendService interface {
	Recommend(ctx context.Context, keywords []string) ([]models.Recommendation, error)
}

// NewRecommendHandler creates a new recommend handler
func NewRecommendHandler(svc RecommendService) *RecommendHandler {
	return &RecommendHandler{service: svc}
}

// Recommend handles GET /hospitals/recommend requests. Explicit keyword parameters win
// over keywords extracted from a free-text message.
//
//	@Summary	Scan the registry for hospitals matching chat keywords
//	@Produce	json
//	@Param		keyword	query		[]string	false	"keywords"	collectionFormat(multi)
//	@Param		message	query		string		false	"free-text user message"
//	@Success	200		{array}		models.Recommendation
//	@Failure	400		{object}	map[string]string
//	@Router		/hospitals/recommend [get]
func (h *RecommendHandler) Recommend(c *gin.Context) {
	keywords := nonBlank(c.QueryArray("keyword"))
	if len(keywords) == 0 {
		message := c.Query("message")
		if message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'keyword' or 'message'"})
			return
		}
		keywords = service.ExtractKeywords(message)
	}

	recommendations, err := h.service.Recommend(c.Request.Context(), keywords)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, recommendations)
}
