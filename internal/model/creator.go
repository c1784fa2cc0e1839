package model

import (
	"time"

	"github.com/google/uuid"
)

type Creator struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:254;not null;uniqueIndex:uk_creators_email"`
	Credits   int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Creator) TableName() string {
	return "creators"
}
