package service

import (
	"context"
	"errors"

	"github.com/higgsterrier/Novel-Publishing-App/internal/cache"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/repository"

	"gorm.io/gorm"
)

// rateAttempts bounds the conflict-retry loop around a rating write.
const rateAttempts = 3

// RatingResult is what a rate call hands back: the novel's fresh aggregate
// plus the caller's own stored value.
type RatingResult struct {
	AverageRating float64
	RatingCount   int64
	UserRating    int
}

type RatingService interface {
	Rate(ctx context.Context, novelID int64, userID string, value int) (*RatingResult, error)
	GetAverage(ctx context.Context, novelID int64) (float64, int64, error)
	GetUserRating(ctx context.Context, userID string, novelID int64) (*models.Rating, error)
	ListByNovel(ctx context.Context, novelID int64, page, pageSize int) ([]models.Rating, int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Rating, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	novelRepo  repository.NovelRepository
	userRepo   repository.UserRepository
	cache      cache.NovelCache
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	novelRepo repository.NovelRepository,
	userRepo repository.UserRepository,
	novelCache cache.NovelCache,
) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		novelRepo:  novelRepo,
		userRepo:   userRepo,
		cache:      novelCache,
	}
}

// Rate stores value as the user's rating of the novel. First rating appends
// and bumps the count; a re-rate replaces in place and the count stays put.
// The rating row and the novel's aggregate move in one transaction inside
// the repository; here we only bound the retry on contention.
func (s *ratingService) Rate(ctx context.Context, novelID int64, userID string, value int) (*RatingResult, error) {
	if value < 1 || value > 5 {
		return nil, validationErr("rating must be an integer between 1 and 5")
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var novel *models.Novel
	var err error
	for attempt := 0; attempt < rateAttempts; attempt++ {
		novel, err = s.ratingRepo.Apply(ctx, userID, novelID, value)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		if !repository.IsRetryableConflict(err) {
			return nil, err
		}
	}
	if err != nil {
		if repository.IsRetryableConflict(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, novelID)
	}

	return &RatingResult{
		AverageRating: novel.AverageRating,
		RatingCount:   novel.RatingCount,
		UserRating:    value,
	}, nil
}

func (s *ratingService) GetAverage(ctx context.Context, novelID int64) (float64, int64, error) {
	novel, err := s.novelRepo.GetByID(ctx, novelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrNovelNotFound
		}
		return 0, 0, err
	}
	return novel.AverageRating, novel.RatingCount, nil
}

func (s *ratingService) GetUserRating(ctx context.Context, userID string, novelID int64) (*models.Rating, error) {
	rating, err := s.ratingRepo.GetByUserAndNovel(ctx, userID, novelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return rating, nil
}

func (s *ratingService) ListByNovel(ctx context.Context, novelID int64, page, pageSize int) ([]models.Rating, int64, error) {
	if _, err := s.novelRepo.GetByID(ctx, novelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNovelNotFound
		}
		return nil, 0, err
	}
	return s.ratingRepo.GetByNovel(ctx, novelID, page, pageSize)
}

func (s *ratingService) ListByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	return s.ratingRepo.GetByUser(ctx, userID)
}
