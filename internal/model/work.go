package model

import (
	"time"

	"github.com/google/uuid"
)

type WorkStatus string

const (
	WorkStatusPendingReview WorkStatus = "pending_review"
	WorkStatusApproved      WorkStatus = "approved"
	WorkStatusRejected      WorkStatus = "rejected"
)

type WorkCategory string

const (
	CategoryMusic   WorkCategory = "music"
	CategoryWriting WorkCategory = "writing"
	CategoryVisual  WorkCategory = "visual"
	CategoryFilm    WorkCategory = "film"
	CategoryOther   WorkCategory = "other"
)

// CategoryLabels maps category slugs to their display names.
var CategoryLabels = map[WorkCategory]string{
	CategoryMusic:   "Music",
	CategoryWriting: "Written Word",
	CategoryVisual:  "Visual Art",
	CategoryFilm:    "Film/Video",
	CategoryOther:   "Other",
}

func (c WorkCategory) Valid() bool {
	_, ok := CategoryLabels[c]
	return ok
}

func (c WorkCategory) Label() string {
	if label, ok := CategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

type Work struct {
	ID            uuid.UUID    `gorm:"type:char(36);primaryKey"`
	CreatorID     uuid.UUID    `gorm:"column:creator_id;type:char(36);index;not null"`
	Creator       *Creator     `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Title         string       `gorm:"size:255;not null"`
	Description   string       `gorm:"type:text;not null"`
	Category      WorkCategory `gorm:"size:20;not null"`
	CreationDate  time.Time    `gorm:"column:creation_date;type:date;not null"`
	FileURL       *string      `gorm:"column:file_url;size:512"`
	WorkLink      *string      `gorm:"column:work_link;size:512"`
	Status        WorkStatus   `gorm:"column:status;size:20;index;not null"`
	ReviewerNotes *string      `gorm:"column:reviewer_notes;type:text"`
	ReviewedAt    *time.Time   `gorm:"column:reviewed_at"`
	RegisteredAt  time.Time    `gorm:"column:registered_at;autoCreateTime"`
}

func (Work) TableName() string {
	return "works"
}
