package models

import "time"

// Novel is the aggregate root for a published work. A novel holds exactly one
// of Content (flat text) or Chapters, switched by HasChapters. The running
// rating aggregate (RatingTotal, RatingCount, AverageRating) is maintained in
// the same transaction as every rating write.
type Novel struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string  `json:"title" gorm:"size:100;not null"`
	Synopsis    string  `json:"synopsis" gorm:"size:500;not null"`
	AuthorID    string  `json:"author_id" gorm:"type:uuid;not null;index"`
	HasChapters bool    `json:"has_chapters" gorm:"not null;default:false"`
	Content     *string `json:"content,omitempty"`

	RatingTotal   int64   `json:"rating_total" gorm:"not null;default:0"`
	RatingCount   int64   `json:"rating_count" gorm:"not null;default:0"`
	AverageRating float64 `json:"average_rating" gorm:"type:decimal(3,2);not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// associations
	Author   User      `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Chapters []Chapter `json:"chapters,omitempty" gorm:"foreignKey:NovelID;constraint:OnDelete:CASCADE;"`
	Genres   []Genre   `json:"genres,omitempty" gorm:"many2many:novel_genres;constraint:OnDelete:CASCADE;"`
}

func (Novel) TableName() string {
	return "novels"
}
