package repository

import (
	"context"
	"fmt"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	GetAll(ctx context.Context) ([]models.Genre, error)
	FindByNames(ctx context.Context, names []string) ([]models.Genre, error)
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) GetAll(ctx context.Context) ([]models.Genre, error) {
	var list []models.Genre
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get genres: %w", err)
	}
	return list, nil
}

// FindByNames resolves genre names to seeded rows. Unknown names simply come
// back missing; the service treats that as a validation failure.
func (r *genreRepository) FindByNames(ctx context.Context, names []string) ([]models.Genre, error) {
	var list []models.Genre
	if len(names) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}
	return list, nil
}
