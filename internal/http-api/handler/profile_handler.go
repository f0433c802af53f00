package handler

import (
	"net/http"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/dto"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/middleware"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/service"
	"github.com/higgsterrier/Novel-Publishing-App/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the caller's own account: profile fields, password
// change and the derived rated-novels view.
type ProfileHandler struct {
	authService   service.AuthService
	ratingService service.RatingService
	logger        *logger.Logger
}

func NewProfileHandler(authService service.AuthService, ratingService service.RatingService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		authService:   authService,
		ratingService: ratingService,
		logger:        log,
	}
}

// RegisterRoutes wires the profile endpoints. Everything here requires
// an authenticated caller.
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	profile := rg.Group("/profile", auth)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/ratings", h.ListRatedNovels)
	}
	rg.POST("/change-password", auth, h.ChangePassword)
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, "get_profile", err, "user_id", userID)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{Name: user.Name, Email: user.Email})
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.UpdateProfile(c.Request.Context(), userID, req.Name, req.Email); err != nil {
		handleServiceError(c, h.logger, "update_profile", err, "user_id", userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// ChangePassword handles POST /api/change-password. A wrong current password
// is a 400, the caller is already authenticated.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(c, h.logger, "change_password", err, "user_id", userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// ListRatedNovels handles GET /api/profile/ratings
func (h *ProfileHandler) ListRatedNovels(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ratings, err := h.ratingService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, "list_rated_novels", err, "user_id", userID)
		return
	}

	resp := make([]dto.RatedNovelResponse, 0, len(ratings))
	for i := range ratings {
		resp = append(resp, *dto.FromModelToRatedNovelResponse(&ratings[i]))
	}
	c.JSON(http.StatusOK, resp)
}
