package models

import "time"

const (
	ScoreMin = 1
	ScoreMax = 10
)

// Review is one user's opinion of one title. The composite unique index on
// (author_id, title_id) is the source of truth for the one-review-per-author
// rule; application-level pre-checks only narrow the race window.
type Review struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	AuthorID  uint      `json:"-" gorm:"not null;uniqueIndex:idx_reviews_author_title"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	TitleID   uint      `json:"title_id" gorm:"not null;uniqueIndex:idx_reviews_author_title"`
	Title     Title     `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Score     int       `json:"score" gorm:"not null"`
	CreatedAt time.Time `json:"pub_date"`
	UpdatedAt time.Time `json:"-"`
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	AuthorID  uint      `json:"-" gorm:"not null"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	ReviewID  uint      `json:"review_id" gorm:"not null"`
	Review    Review    `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"pub_date"`
	UpdatedAt time.Time `json:"-"`
}
