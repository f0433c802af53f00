package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/dto"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/middleware"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/repository"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/service"
	"github.com/higgsterrier/Novel-Publishing-App/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

type NovelHandler struct {
	svc    service.NovelService
	logger *logger.Logger
}

func NewNovelHandler(svc service.NovelService, log *logger.Logger) *NovelHandler {
	return &NovelHandler{svc: svc, logger: log}
}

// RegisterRoutes wires the novel routes under rg. Reads are public,
// writes require the auth middleware.
func (h *NovelHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/chapters/:n", h.GetChapter)

	rg.POST("", auth, h.Create)
	rg.PUT("/:id", auth, h.Update)
	rg.DELETE("/:id", auth, h.Delete)
}

// List handles GET /api/novels?q=&genres=a,b&page=&page_size=
func (h *NovelHandler) List(c *gin.Context) {
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

	filter := repository.SearchFilter{Text: c.Query("q")}
	if genres := c.Query("genres"); genres != "" {
		for _, g := range strings.Split(genres, ",") {
			if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
				filter.Genres = append(filter.Genres, g)
			}
		}
	}

	list, total, err := h.svc.Search(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		handleServiceError(c, h.logger, "list_novels", err)
		return
	}

	resp := make([]dto.NovelBasicResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, dto.FromModelToNovelBasicResponse(n))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": resp,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// Get handles GET /api/novels/:id
func (h *NovelHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	n, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, "get_novel", err, "novel_id", id)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToNovelResponse(*n))
}

// Create handles POST /api/novels
func (h *NovelHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var in dto.CreateNovelDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), userID, in.ToInput())
	if err != nil {
		handleServiceError(c, h.logger, "create_novel", err, "author_id", userID)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToNovelResponse(*created))
}

// Update handles PUT /api/novels/:id (author only)
func (h *NovelHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var in dto.UpdateNovelDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, userID, in.ToPatch())
	if err != nil {
		handleServiceError(c, h.logger, "update_novel", err, "novel_id", id, "caller_id", userID)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToNovelResponse(*updated))
}

// Delete handles DELETE /api/novels/:id (author only)
func (h *NovelHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, userID); err != nil {
		handleServiceError(c, h.logger, "delete_novel", err, "novel_id", id, "caller_id", userID)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetChapter handles GET /api/novels/:id/chapters/:n with a 1-based index
func (h *NovelHandler) GetChapter(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter number"})
		return
	}

	chapter, err := h.svc.GetChapter(c.Request.Context(), id, n)
	if err != nil {
		handleServiceError(c, h.logger, "get_chapter", err, "novel_id", id, "chapter", n)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToChapterResponse(*chapter))
}

// MyWorks handles GET /api/my-works: the caller's own novels, newest first
func (h *NovelHandler) MyWorks(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	list, err := h.svc.ListByAuthor(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, "my_works", err, "author_id", userID)
		return
	}

	resp := make([]dto.NovelBasicResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, dto.FromModelToNovelBasicResponse(n))
	}
	c.JSON(http.StatusOK, resp)
}

// ListGenres handles GET /api/genres: the fixed catalog for submission forms
func (h *NovelHandler) ListGenres(c *gin.Context) {
	genres, err := h.svc.ListGenres(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, "list_genres", err)
		return
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	c.JSON(http.StatusOK, gin.H{"genres": names})
}
