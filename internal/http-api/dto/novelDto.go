package dto

import (
	"time"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/service"
)

// ChapterInputDTO is one chapter of a submission. Positions come from list
// order; a chapter_number field sent by the client is simply ignored.
type ChapterInputDTO struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreateNovelDTO used for POST /api/novels
type CreateNovelDTO struct {
	Title       string            `json:"title" binding:"required,max=100"`
	Synopsis    string            `json:"synopsis" binding:"required,max=500"`
	Genres      []string          `json:"genres" binding:"required,min=1"`
	HasChapters bool              `json:"has_chapters"`
	Content     string            `json:"content,omitempty"`
	Chapters    []ChapterInputDTO `json:"chapters,omitempty"`
}

// UpdateNovelDTO used for PUT /api/novels/:id (partial updates allowed)
type UpdateNovelDTO struct {
	Title       *string           `json:"title,omitempty"`
	Synopsis    *string           `json:"synopsis,omitempty"`
	Genres      []string          `json:"genres,omitempty"`
	HasChapters *bool             `json:"has_chapters,omitempty"`
	Content     *string           `json:"content,omitempty"`
	Chapters    []ChapterInputDTO `json:"chapters,omitempty"`
}

// ChapterResponse for a chapter inside a novel response
type ChapterResponse struct {
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Content       string `json:"content,omitempty"`
}

// NovelResponse DTO for full novel responses
type NovelResponse struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Synopsis      string            `json:"synopsis"`
	AuthorID      string            `json:"author_id"`
	AuthorName    string            `json:"author_name,omitempty"`
	Genres        []string          `json:"genres"`
	HasChapters   bool              `json:"has_chapters"`
	Content       *string           `json:"content,omitempty"`
	Chapters      []ChapterResponse `json:"chapters,omitempty"`
	AverageRating float64           `json:"average_rating"`
	RatingCount   int64             `json:"rating_count"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NovelBasicResponse for list views: no content bodies
type NovelBasicResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Synopsis      string    `json:"synopsis"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name,omitempty"`
	Genres        []string  `json:"genres"`
	HasChapters   bool      `json:"has_chapters"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Converters
func (d CreateNovelDTO) ToInput() service.NovelInput {
	return service.NovelInput{
		Title:       d.Title,
		Synopsis:    d.Synopsis,
		Genres:      d.Genres,
		HasChapters: d.HasChapters,
		Content:     d.Content,
		Chapters:    toChapterInputs(d.Chapters),
	}
}

func (d UpdateNovelDTO) ToPatch() service.NovelPatch {
	patch := service.NovelPatch{
		Title:       d.Title,
		Synopsis:    d.Synopsis,
		Genres:      d.Genres,
		HasChapters: d.HasChapters,
		Content:     d.Content,
	}
	if d.Chapters != nil {
		patch.Chapters = toChapterInputs(d.Chapters)
	}
	return patch
}

func toChapterInputs(in []ChapterInputDTO) []service.ChapterInput {
	if in == nil {
		return nil
	}
	out := make([]service.ChapterInput, 0, len(in))
	for _, ch := range in {
		out = append(out, service.ChapterInput{Title: ch.Title, Content: ch.Content})
	}
	return out
}

func FromModelToNovelResponse(n models.Novel) NovelResponse {
	resp := NovelResponse{
		ID:            n.ID,
		Title:         n.Title,
		Synopsis:      n.Synopsis,
		AuthorID:      n.AuthorID,
		AuthorName:    n.Author.Name,
		Genres:        genreNames(n.Genres),
		HasChapters:   n.HasChapters,
		Content:       n.Content,
		AverageRating: n.AverageRating,
		RatingCount:   n.RatingCount,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
	for _, ch := range n.Chapters {
		resp.Chapters = append(resp.Chapters, ChapterResponse{
			ChapterNumber: ch.ChapterNumber,
			Title:         ch.Title,
			Content:       ch.Content,
		})
	}
	return resp
}

func FromModelToNovelBasicResponse(n models.Novel) NovelBasicResponse {
	return NovelBasicResponse{
		ID:            n.ID,
		Title:         n.Title,
		Synopsis:      n.Synopsis,
		AuthorID:      n.AuthorID,
		AuthorName:    n.Author.Name,
		Genres:        genreNames(n.Genres),
		HasChapters:   n.HasChapters,
		AverageRating: n.AverageRating,
		RatingCount:   n.RatingCount,
		CreatedAt:     n.CreatedAt,
	}
}

func FromModelToChapterResponse(ch models.Chapter) ChapterResponse {
	return ChapterResponse{
		ChapterNumber: ch.ChapterNumber,
		Title:         ch.Title,
		Content:       ch.Content,
	}
}

func genreNames(genres []models.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}
