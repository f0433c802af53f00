package handler

import (
	"net/http"
	"strconv"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/dto"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/middleware"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/service"
	"github.com/higgsterrier/Novel-Publishing-App/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	svc    service.RatingService
	logger *logger.Logger
}

func NewRatingHandler(svc service.RatingService, log *logger.Logger) *RatingHandler {
	return &RatingHandler{svc: svc, logger: log}
}

// RegisterRoutes wires the rating routes under the novel group.
func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	ratings := rg.Group("/:id/ratings")
	{
		ratings.GET("", h.List)
		ratings.GET("/average", h.GetAverage)
		ratings.GET("/me", auth, h.GetMine)
	}
	rg.POST("/:id/rate", auth, h.Rate)
}

// Rate handles POST /api/novels/:id/rate. Submitting a second time
// replaces the caller's previous rating.
func (h *RatingHandler) Rate(c *gin.Context) {
	novelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var in dto.CreateRatingDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be an integer between 1 and 5"})
		return
	}

	result, err := h.svc.Rate(c.Request.Context(), novelID, userID, in.Rating)
	if err != nil {
		handleServiceError(c, h.logger, "rate_novel", err, "novel_id", novelID, "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, dto.FromRatingResult(result))
}

// List handles GET /api/novels/:id/ratings
func (h *RatingHandler) List(c *gin.Context) {
	novelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	page := 1
	pageSize := 20
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	ratings, total, err := h.svc.ListByNovel(c.Request.Context(), novelID, page, pageSize)
	if err != nil {
		handleServiceError(c, h.logger, "list_ratings", err, "novel_id", novelID)
		return
	}

	resp := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		resp = append(resp, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedRatingResponse(resp, int(total), page, pageSize))
}

// GetAverage handles GET /api/novels/:id/ratings/average
func (h *RatingHandler) GetAverage(c *gin.Context) {
	novelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	avg, count, err := h.svc.GetAverage(c.Request.Context(), novelID)
	if err != nil {
		handleServiceError(c, h.logger, "average_rating", err, "novel_id", novelID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"novel_id":       novelID,
		"average_rating": avg,
		"rating_count":   count,
	})
}

// GetMine handles GET /api/novels/:id/ratings/me, the caller's own rating
func (h *RatingHandler) GetMine(c *gin.Context) {
	novelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	rating, err := h.svc.GetUserRating(c.Request.Context(), userID, novelID)
	if err != nil {
		handleServiceError(c, h.logger, "my_rating", err, "novel_id", novelID, "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToRatingResponse(rating))
}
