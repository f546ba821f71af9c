package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"water-features-api/internal/models"
	"water-features-api/internal/service"

	"github.com/gin-gonic/gin"
)

// FeatureHandler serves the read endpoints for water features.
type FeatureHandler struct {
	svc *service.FeatureService
}

// NewFeatureHandler wires a handler around the retrieval service.
func NewFeatureHandler(svc *service.FeatureService) *FeatureHandler {
	return &FeatureHandler{svc: svc}
}

/*
*
ListFeatures handles GET /api/features
Optional query params: category, region, minCapacity, minSurfaceArea,
sortBy (default name), sortDir (asc|desc, default asc), limit, offset.
*/
func (h *FeatureHandler) ListFeatures(c *gin.Context) {
	filter := models.FeatureFilter{
		Region:  strings.TrimSpace(c.Query("region")),
		SortBy:  c.DefaultQuery("sortBy", "name"),
		SortDir: models.SortAsc,
	}

	// Unknown category values fall through to "all categories" in the builder.
	if cat, ok := models.ParseCategory(c.Query("category")); ok {
		filter.Category = cat
	}
	if strings.ToLower(c.Query("sortDir")) == string(models.SortDesc) {
		filter.SortDir = models.SortDesc
	}
	filter.MinCapacity = parseFloatParam(c.Query("minCapacity"))
	filter.MinSurfaceArea = parseFloatParam(c.Query("minSurfaceArea"))

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(models.DefaultLimit)))
	if err != nil || limit < 1 {
		limit = models.DefaultLimit
	}
	if limit > models.MaxLimit {
		limit = models.MaxLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	filter.Limit = limit
	filter.Offset = offset

	features, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		// Remote detail stays in the log; the caller gets a generic message.
		log.Printf("list features: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch water features",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"features": features,
		"count":    len(features),
		"limit":    limit,
		"offset":   offset,
	})
}

// GetFeatureByID handles GET /api/features/:id
func (h *FeatureHandler) GetFeatureByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feature ID is required"})
		return
	}

	feature, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("get feature %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch water features",
		})
		return
	}
	if feature == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Water feature not found"})
		return
	}

	c.JSON(http.StatusOK, feature)
}

// GetCategories handles GET /api/categories
func (h *FeatureHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": models.AllCategories,
	})
}

// parseFloatParam reads an optional numeric query param. An unparsable value
// is treated as unset; an explicit "0" is a real bound.
func parseFloatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
