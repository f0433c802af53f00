package repository

import (
	"context"
	"errors"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// Apply records value as the caller's rating of the novel and moves the
	// novel's {total, count, average} aggregate in the same transaction.
	Apply(ctx context.Context, userID string, novelID int64, value int) (*models.Novel, error)
	GetByUserAndNovel(ctx context.Context, userID string, novelID int64) (*models.Rating, error)
	GetByNovel(ctx context.Context, novelID int64, page, pageSize int) ([]models.Rating, int64, error)
	GetByUser(ctx context.Context, userID string) ([]models.Rating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Apply upserts the (user, novel) rating row and adjusts the aggregate
// columns with in-database increments, so concurrent raters cannot lose each
// other's updates. Everything commits or nothing does: a failure leaves both
// the rating row and the aggregate at their prior state.
//
// Two first-ratings racing for the same (user, novel) pair serialize on the
// composite unique index; the loser surfaces a duplicate-key error that the
// service layer retries, turning it into the update path.
func (r *ratingRepository) Apply(ctx context.Context, userID string, novelID int64, value int) (*models.Novel, error) {
	var novel models.Novel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		delta := int64(value)
		countInc := int64(1)

		var existing models.Rating
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND novel_id = ?", userID, novelID).
			First(&existing).Error
		switch {
		case err == nil:
			// re-rate: value replaced in place, count unchanged
			delta = int64(value - existing.Rating)
			countInc = 0
			existing.Rating = value
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating := models.Rating{UserID: userID, NovelID: novelID, Rating: value}
			if err := tx.Create(&rating).Error; err != nil {
				return err
			}
		default:
			return err
		}

		result := tx.Model(&models.Novel{}).Where("id = ?", novelID).Updates(map[string]interface{}{
			"rating_total": gorm.Expr("rating_total + ?", delta),
			"rating_count": gorm.Expr("rating_count + ?", countInc),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		// derived average recomputed from the columns just moved, same tx
		err = tx.Model(&models.Novel{}).Where("id = ?", novelID).
			Update("average_rating", gorm.Expr(
				"CASE WHEN rating_count = 0 THEN 0 ELSE rating_total::numeric / rating_count END",
			)).Error
		if err != nil {
			return err
		}

		return tx.First(&novel, novelID).Error
	})
	if err != nil {
		return nil, err
	}
	return &novel, nil
}

func (r *ratingRepository) GetByUserAndNovel(ctx context.Context, userID string, novelID int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND novel_id = ?", userID, novelID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByNovel retrieves all ratings for a novel with pagination, newest first.
func (r *ratingRepository) GetByNovel(ctx context.Context, novelID int64, page, pageSize int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Where("novel_id = ?", novelID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("novel_id = ?", novelID).
		Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

// GetByUser returns the ratings a user has cast, with the rated novels
// preloaded. This is the derived "rated novels" view: the ratings table is
// the single source of truth, nothing is mirrored onto the user row.
func (r *ratingRepository) GetByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Novel").
		Order("updated_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// IsRetryableConflict reports whether err is write contention worth retrying:
// a duplicate-key race on the (user, novel) unique index or a serialization
// failure.
func IsRetryableConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation, 40001 serialization_failure, 40P01 deadlock_detected
		return pgErr.Code == "23505" || pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
