package model

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID              uuid.UUID  `gorm:"type:char(36);primaryKey"`
	CreatorID       *uuid.UUID `gorm:"column:creator_id;type:char(36);index"`
	Creator         *Creator   `gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL"`
	Email           string     `gorm:"size:254;not null"`
	StripeChargeID  *string    `gorm:"column:stripe_charge_id;size:255;uniqueIndex:uk_payments_charge"`
	StripeSessionID string     `gorm:"column:stripe_session_id;size:255;not null;uniqueIndex:uk_payments_session"`
	AmountCents     int        `gorm:"column:amount_cents;not null"`
	Currency        string     `gorm:"size:3;not null;default:GBP"`
	CreditsGranted  int        `gorm:"column:credits_granted;not null"`
	Fulfilled       bool       `gorm:"not null;default:false"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	FulfilledAt     *time.Time `gorm:"column:fulfilled_at"`
}

func (Payment) TableName() string {
	return "payments"
}
