package models

import "time"

// Chapter numbers within a novel are always a contiguous 1..N sequence,
// reassigned from list order on every write. Client-supplied numbers are
// never trusted.
type Chapter struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	NovelID       int64     `json:"novel_id" gorm:"not null;uniqueIndex:idx_novel_chapter_number"`
	ChapterNumber int       `json:"chapter_number" gorm:"not null;uniqueIndex:idx_novel_chapter_number"`
	Title         string    `json:"title" gorm:"size:200;not null"`
	Content       string    `json:"content" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Chapter) TableName() string {
	return "chapters"
}
