package dto

import (
	"time"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/service"
)

// CreateRatingDTO for creating or updating a rating
type CreateRatingDTO struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// RateResponse carries the novel's fresh aggregate plus the caller's own value
type RateResponse struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
	UserRating    int     `json:"user_rating"`
}

func FromRatingResult(r *service.RatingResult) RateResponse {
	return RateResponse{
		AverageRating: r.AverageRating,
		RatingCount:   r.RatingCount,
		UserRating:    r.UserRating,
	}
}

// RatingResponse for listing a novel's ratings (rater name, no ids)
type RatingResponse struct {
	RaterName string    `json:"rater_name"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	return &RatingResponse{
		RaterName: rating.User.Name,
		Rating:    rating.Rating,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

// RatedNovelResponse is one row of the caller's rated-novels view
type RatedNovelResponse struct {
	NovelID    int64     `json:"novel_id"`
	NovelTitle string    `json:"novel_title"`
	Rating     int       `json:"rating"`
	RatedAt    time.Time `json:"rated_at"`
}

func FromModelToRatedNovelResponse(rating *models.Rating) *RatedNovelResponse {
	return &RatedNovelResponse{
		NovelID:    rating.NovelID,
		NovelTitle: rating.Novel.Title,
		Rating:     rating.Rating,
		RatedAt:    rating.UpdatedAt,
	}
}

// PaginatedRatingResponse for returning paginated ratings
type PaginatedRatingResponse struct {
	Data       []RatingResponse `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// NewPaginatedRatingResponse creates a paginated rating response
func NewPaginatedRatingResponse(data []RatingResponse, total, page, pageSize int) *PaginatedRatingResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return &PaginatedRatingResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
