package handler

import (
	"net/http"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/dto"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/service"
	"github.com/higgsterrier/Novel-Publishing-App/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	logger      *logger.Logger
	expiresIn   int64 // access token lifetime in seconds, echoed to clients
}

func NewAuthHandler(authService service.AuthService, log *logger.Logger, expiresIn int64) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      log,
		expiresIn:   expiresIn,
	}
}

// RegisterRoutes wires the auth endpoints. The limit middleware is the
// per-IP rate limiter applied to credential-handling routes.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.POST("/register", limit, h.Register)
	rg.POST("/login", limit, h.Login)

	auth := rg.Group("/auth")
	{
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/revoke", h.RevokeToken)
	}
}

// Register creates the account and signs the caller in right away, mirroring
// the publish-first onboarding flow of the UI.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, accessToken, refreshToken, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, h.logger, "register", err, "email", req.Email)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ExpiresIn:    h.expiresIn,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, refreshToken, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, h.logger, "login", err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ExpiresIn:    h.expiresIn,
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newAccessToken, err := h.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, h.logger, "refresh_token", err)
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken: newAccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   h.expiresIn,
	})
}

func (h *AuthHandler) RevokeToken(c *gin.Context) {
	var req dto.RevokeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.RevokeToken(c.Request.Context(), req.RefreshToken); err != nil {
		h.logger.Warn("revoke failed", "error", err.Error())
	}

	// always a success response to avoid token fishing
	c.JSON(http.StatusOK, dto.RevokeTokenResponse{
		Message: "Refresh token revoked successfully",
	})
}
