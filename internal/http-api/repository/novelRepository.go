package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"

	"gorm.io/gorm"
)

// SearchFilter narrows a catalog listing. Zero value returns everything.
type SearchFilter struct {
	Text   string
	Genres []string
}

type NovelRepository interface {
	Create(ctx context.Context, n *models.Novel) error
	GetByID(ctx context.Context, id int64) (*models.Novel, error)
	Update(ctx context.Context, n *models.Novel) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filter SearchFilter, page, pageSize int) ([]models.Novel, int64, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Novel, error)
}

type novelRepository struct {
	db *gorm.DB
}

func NewNovelRepository(db *gorm.DB) NovelRepository {
	return &novelRepository{db: db}
}

// Create persists the novel together with its chapters and genre links.
// GORM wraps the associated inserts in a single transaction and populates
// n.ID and n.CreatedAt.
func (r *novelRepository) Create(ctx context.Context, n *models.Novel) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create novel: %w", err)
	}
	return nil
}

func (r *novelRepository) GetByID(ctx context.Context, id int64) (*models.Novel, error) {
	var n models.Novel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Genres").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapter_number ASC")
		}).
		First(&n, id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Update rewrites the novel's scalar fields, its whole chapter list and its
// genre links in one transaction. The rating aggregate columns are left
// untouched: only the rating path may move them.
func (r *novelRepository) Update(ctx context.Context, n *models.Novel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":        n.Title,
			"synopsis":     n.Synopsis,
			"has_chapters": n.HasChapters,
			"content":      n.Content,
		}
		result := tx.Model(&models.Novel{}).Where("id = ?", n.ID).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("update novel: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		// chapters are replaced wholesale; numbering was assigned by the service
		if err := tx.Where("novel_id = ?", n.ID).Delete(&models.Chapter{}).Error; err != nil {
			return fmt.Errorf("clear chapters: %w", err)
		}
		if len(n.Chapters) > 0 {
			for i := range n.Chapters {
				n.Chapters[i].ID = 0
				n.Chapters[i].NovelID = n.ID
			}
			if err := tx.Create(&n.Chapters).Error; err != nil {
				return fmt.Errorf("rewrite chapters: %w", err)
			}
		}

		if err := tx.Model(n).Association("Genres").Replace(n.Genres); err != nil {
			return fmt.Errorf("replace genres: %w", err)
		}
		return nil
	})
}

func (r *novelRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Novel{}, id).Error; err != nil {
		return fmt.Errorf("delete novel: %w", err)
	}
	return nil
}

// Search performs a case-insensitive substring match of the text against
// title, synopsis and author name, AND (when genres are given) requires at
// least one genre overlap. Results are newest first.
func (r *novelRepository) Search(ctx context.Context, filter SearchFilter, page, pageSize int) ([]models.Novel, int64, error) {
	var list []models.Novel
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Novel{}).
		Joins("JOIN users ON users.id = novels.author_id")

	if text := strings.TrimSpace(filter.Text); text != "" {
		p := "%" + text + "%"
		base = base.Where("novels.title ILIKE ? OR novels.synopsis ILIKE ? OR users.name ILIKE ?", p, p, p)
	}
	if len(filter.Genres) > 0 {
		base = base.
			Joins("JOIN novel_genres ON novel_genres.novel_id = novels.id").
			Joins("JOIN genres ON genres.id = novel_genres.genre_id").
			Where("genres.name IN ?", filter.Genres).
			Distinct("novels.*")
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count novels: %w", err)
	}

	offset := (page - 1) * pageSize
	err := base.
		Preload("Author").
		Preload("Genres").
		Order("novels.created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("search novels: %w", err)
	}
	return list, total, nil
}

func (r *novelRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Novel, error) {
	var list []models.Novel
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list novels by author: %w", err)
	}
	return list, nil
}
