package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"vet-hospital-api/internal/models"
	"vet-hospital-api/internal/repository"
	"vet-hospital-api/internal/service"

	"github.com/gin-gonic/gin"
)

// HospitalHandler handles dataset listing, keyword search and nearby queries
type HospitalHandler struct {
	service HospitalService
}

// Service interface for dependency injection
type HospitalService interface {
	List(ctx context.Context, specialOnly bool) ([]models.Hospital, string, error)
	Search(ctx context.Context, keywords []string, limit int) ([]models.Hospital, error)
	Nearby(ctx context.Context, lat, lng float64) ([]models.NearbyHospital, error)
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(svc HospitalService) *HospitalHandler {
	return &HospitalHandler{service: svc}
}

// List handles GET /hospitals requests
//
//	@Summary	List active hospitals
//	@Produce	json
//	@Param		special	query		bool	false	"only specialty hospitals"
//	@Success	200		{array}		models.Hospital
//	@Success	304
//	@Router		/hospitals [get]
func (h *HospitalHandler) List(c *gin.Context) {
	specialOnly := c.Query("special") == "true"

	hospitals, checksum, err := h.service.List(c.Request.Context(), specialOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	etag := `"` + checksum + `"`
	if specialOnly {
		etag = `"` + checksum + `-special"`
	}
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.JSON(http.StatusOK, hospitals)
}

// Search handles GET /hospitals/search requests
//
//	@Summary	Search hospitals by name or address keyword
//	@Produce	json
//	@Param		q		query		[]string	true	"keywords"	collectionFormat(multi)
//	@Param		limit	query		int			false	"result cap"
//	@Success	200		{array}		models.Hospital
//	@Failure	400		{object}	map[string]string
//	@Router		/hospitals/search [get]
func (h *HospitalHandler) Search(c *gin.Context) {
	keywords := nonBlank(c.QueryArray("q"))
	if len(keywords) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	hospitals, err := h.service.Search(c.Request.Context(), keywords, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, hospitals)
}

// Nearby handles GET /hospitals/nearby requests
//
//	@Summary	Hospitals nearest to a point
//	@Produce	json
//	@Param		lat	query		number	true	"latitude"
//	@Param		lng	query		number	true	"longitude"
//	@Success	200	{array}		models.NearbyHospital
//	@Failure	404	{object}	map[string]string
//	@Failure	503	{object}	map[string]string
//	@Router		/hospitals/nearby [get]
func (h *HospitalHandler) Nearby(c *gin.Context) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")

	if latStr == "" || lngStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lng'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	hospitals, err := h.service.Nearby(c.Request.Context(), lat, lng)
	switch {
	case errors.Is(err, repository.ErrNoHospitalNearby):
		c.JSON(http.StatusNotFound, gin.H{"error": "no hospital found near the specified coordinates"})
		return
	case errors.Is(err, service.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spatial search is not available"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, hospitals)
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
