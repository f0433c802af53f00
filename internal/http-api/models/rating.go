package models

import "time"

// Rating holds one user's score for one novel. The composite unique index is
// what makes re-rating an update instead of an append.
type Rating struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_novel_rating"`
	NovelID   int64     `json:"novel_id" gorm:"not null;uniqueIndex:idx_user_novel_rating"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Novel Novel `json:"novel,omitempty" gorm:"foreignKey:NovelID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}
