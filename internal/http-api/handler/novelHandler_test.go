package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/dto"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/handler"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/repository"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/service"
	"github.com/higgsterrier/Novel-Publishing-App/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }

// --- MOCK SERVICE ---

type MockNovelService struct {
	mock.Mock
}

func (m *MockNovelService) Create(ctx context.Context, authorID string, input service.NovelInput) (*models.Novel, error) {
	args := m.Called(ctx, authorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Novel), args.Error(1)
}

func (m *MockNovelService) GetByID(ctx context.Context, id int64) (*models.Novel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Novel), args.Error(1)
}

func (m *MockNovelService) GetChapter(ctx context.Context, novelID int64, chapterNumber int) (*models.Chapter, error) {
	args := m.Called(ctx, novelID, chapterNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockNovelService) Update(ctx context.Context, novelID int64, callerID string, patch service.NovelPatch) (*models.Novel, error) {
	args := m.Called(ctx, novelID, callerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Novel), args.Error(1)
}

func (m *MockNovelService) Delete(ctx context.Context, novelID int64, callerID string) error {
	args := m.Called(ctx, novelID, callerID)
	return args.Error(0)
}

func (m *MockNovelService) Search(ctx context.Context, filter repository.SearchFilter, page, pageSize int) ([]models.Novel, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]models.Novel), args.Get(1).(int64), args.Error(2)
}

func (m *MockNovelService) ListByAuthor(ctx context.Context, authorID string) ([]models.Novel, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockNovelService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Genre), args.Error(1)
}

// --- SETUP ---

const testUserID = "11111111-2222-3333-4444-555555555555"

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("email", "author@example.com")
		c.Next()
	}
}

func setupNovelRouter(t *testing.T, mockService *MockNovelService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewNovelHandler(mockService, testLogger(t))

	novels := r.Group("/api/novels")
	h.RegisterRoutes(novels, fakeAuth(testUserID))
	r.GET("/api/my-works", fakeAuth(testUserID), h.MyWorks)
	r.GET("/api/genres", h.ListGenres)
	return r
}

// --- TESTS ---

func TestNovelHandler_List(t *testing.T) {
	mockService := new(MockNovelService)
	r := setupNovelRouter(t, mockService)

	expected := []models.Novel{
		{ID: 1, Title: "First Light", Synopsis: "short", AuthorID: testUserID, AverageRating: 4.5, RatingCount: 2},
		{ID: 2, Title: "Second Wind", Synopsis: "short", HasChapters: true},
	}

	t.Run("Success", func(t *testing.T) {
		mockService.On("Search", mock.Anything, repository.SearchFilter{}, 1, 20).
			Return(expected, int64(2), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/novels", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)

		data := response["data"].([]interface{})
		assert.Len(t, data, 2)

		item1 := data[0].(map[string]interface{})
		assert.Equal(t, "First Light", item1["title"])
		assert.Equal(t, 4.5, item1["average_rating"])
		// list view never carries content bodies
		assert.NotContains(t, item1, "content")

		pagination := response["pagination"].(map[string]interface{})
		assert.Equal(t, float64(2), pagination["total"])
	})

	t.Run("FiltersForwarded", func(t *testing.T) {
		mockService.On("Search", mock.Anything, repository.SearchFilter{
			Text:   "dragon",
			Genres: []string{"fantasy", "adventure"},
		}, 2, 10).Return([]models.Novel{}, int64(0), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/novels?q=dragon&genres=Fantasy,%20adventure&page=2&page_size=10", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestNovelHandler_Get(t *testing.T) {
	mockService := new(MockNovelService)
	r := setupNovelRouter(t, mockService)

	t.Run("Success_FlatNovel", func(t *testing.T) {
		expected := &models.Novel{
			ID:       7,
			Title:    "The Quiet Harbor",
			Synopsis: "A town by the sea.",
			AuthorID: testUserID,
			Author:   models.User{Name: "Morgan"},
			Genres:   []models.Genre{{Name: "literary"}},
			Content:  stringPtr("It began with the tide."),
		}
		mockService.On("GetByID", mock.Anything, int64(7)).Return(expected, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/novels/7", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.NovelResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, int64(7), response.ID)
		assert.Equal(t, "Morgan", response.AuthorName)
		assert.Equal(t, "It began with the tide.", *response.Content)
		assert.False(t, response.HasChapters)
		assert.Empty(t, response.Chapters)
		assert.Contains(t, response.Genres, "literary")
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("GetByID", mock.Anything, int64(999)).Return(nil, service.ErrNovelNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/novels/999", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/novels/abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNovelHandler_Create(t *testing.T) {
	mockService := new(MockNovelService)
	r := setupNovelRouter(t, mockService)

	t.Run("Success_Chaptered", func(t *testing.T) {
		createDTO := dto.CreateNovelDTO{
			Title:       "Serial Story",
			Synopsis:    "Published one chapter at a time.",
			Genres:      []string{"fantasy"},
			HasChapters: true,
			Chapters: []dto.ChapterInputDTO{
				{Title: "Beginnings", Content: "Once."},
				{Title: "Middles", Content: "Then."},
			},
		}

		created := &models.Novel{
			ID:          3,
			Title:       "Serial Story",
			AuthorID:    testUserID,
			HasChapters: true,
			Chapters: []models.Chapter{
				{ChapterNumber: 1, Title: "Beginnings", Content: "Once."},
				{ChapterNumber: 2, Title: "Middles", Content: "Then."},
			},
		}

		mockService.On("Create", mock.Anything, testUserID, mock.MatchedBy(func(in service.NovelInput) bool {
			return in.Title == "Serial Story" && in.HasChapters && len(in.Chapters) == 2
		})).Return(created, nil).Once()

		body, _ := json.Marshal(createDTO)
		req, _ := http.NewRequest(http.MethodPost, "/api/novels", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.NovelResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Len(t, response.Chapters, 2)
		assert.Equal(t, 1, response.Chapters[0].ChapterNumber)
		mockService.AssertExpectations(t)
	})

	t.Run("BindingError_MissingTitle", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"synopsis": "no title here",
			"genres":   []string{"horror"},
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/novels", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ValidationError_BothShapes", func(t *testing.T) {
		createDTO := dto.CreateNovelDTO{
			Title:    "Confused",
			Synopsis: "s",
			Genres:   []string{"other"},
			Content:  "flat body",
			Chapters: []dto.ChapterInputDTO{{Title: "One", Content: "x"}},
		}
		mockService.On("Create", mock.Anything, testUserID, mock.Anything).
			Return(nil, service.ErrValidation).Once()

		body, _ := json.Marshal(createDTO)
		req, _ := http.NewRequest(http.MethodPost, "/api/novels", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNovelHandler_Update(t *testing.T) {
	mockService := new(MockNovelService)
	r := setupNovelRouter(t, mockService)

	t.Run("Success", func(t *testing.T) {
		updateDTO := dto.UpdateNovelDTO{
			Title:       stringPtr("Renamed"),
			HasChapters: boolPtr(false),
			Content:     stringPtr("now a single body"),
		}
		updated := &models.Novel{ID: 10, Title: "Renamed", AuthorID: testUserID, Content: stringPtr("now a single body")}

		mockService.On("Update", mock.Anything, int64(10), testUserID, mock.MatchedBy(func(p service.NovelPatch) bool {
			return p.Title != nil && *p.Title == "Renamed" && p.HasChapters != nil && !*p.HasChapters
		})).Return(updated, nil).Once()

		body, _ := json.Marshal(updateDTO)
		req, _ := http.NewRequest(http.MethodPut, "/api/novels/10", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Forbidden_NotOwner", func(t *testing.T) {
		updateDTO := dto.UpdateNovelDTO{Title: stringPtr("Hijacked")}
		mockService.On("Update", mock.Anything, int64(11), testUserID, mock.Anything).
			Return(nil, service.ErrNotOwner).Once()

		body, _ := json.Marshal(updateDTO)
		req, _ := http.NewRequest(http.MethodPut, "/api/novels/11", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestNovelHandler_Delete(t *testing.T) {
	mockService := new(MockNovelService)
	r := setupNovelRouter(t, mockService)

	t.Run("Success", func(t *testing.T) {
		mockService.On("Delete", mock.Anything, int64(55), testUserID).Return(nil).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/novels/55", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("Delete", mock.Anything, int64(56), testUserID).Return(service.ErrNovelNotFound).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/novels/56", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNovelHandler_GetChapter(t *testing.T) {
	mockService := new(MockNovelService)
	r := setupNovelRouter(t, mockService)

	t.Run("Success", func(t *testing.T) {
		chapter := &models.Chapter{NovelID: 7, ChapterNumber: 2, Title: "Middles", Content: "Then."}
		mockService.On("GetChapter", mock.Anything, int64(7), 2).Return(chapter, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/novels/7/chapters/2", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ChapterResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, 2, response.ChapterNumber)
		assert.Equal(t, "Middles", response.Title)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		mockService.On("GetChapter", mock.Anything, int64(7), 99).Return(nil, service.ErrChapterNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/novels/7/chapters/99", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNovelHandler_MyWorks(t *testing.T) {
	mockService := new(MockNovelService)
	r := setupNovelRouter(t, mockService)

	t.Run("Success", func(t *testing.T) {
		mine := []models.Novel{
			{ID: 2, Title: "Newest", AuthorID: testUserID},
			{ID: 1, Title: "Oldest", AuthorID: testUserID},
		}
		mockService.On("ListByAuthor", mock.Anything, testUserID).Return(mine, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/my-works", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response []dto.NovelBasicResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Len(t, response, 2)
		assert.Equal(t, "Newest", response[0].Title)
	})
}

func TestNovelHandler_ListGenres(t *testing.T) {
	mockService := new(MockNovelService)
	r := setupNovelRouter(t, mockService)

	catalog := make([]models.Genre, 0, len(models.CatalogGenres))
	for i, name := range models.CatalogGenres {
		catalog = append(catalog, models.Genre{ID: int64(i + 1), Name: name})
	}
	mockService.On("ListGenres", mock.Anything).Return(catalog, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/genres", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string][]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response["genres"], len(models.CatalogGenres))
	assert.Contains(t, response["genres"], "fantasy")
}
