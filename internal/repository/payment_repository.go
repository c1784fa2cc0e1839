package repository

import (
	"context"
	"errors"
	"time"

	"github.com/factumhumanum/registry-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error)
	FulfillBySession(ctx context.Context, sessionID string) (*model.Payment, bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.WithContext(ctx).
		Where("stripe_session_id = ?", sessionID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FulfillBySession grants the payment's credits to its creator and flips the
// fulfilled flag, all inside one transaction holding a row lock on the
// payment. Concurrent callers with the same session id serialize on the lock;
// whoever finds fulfilled already set performs no writes. The returned bool
// reports whether this call granted the credits.
func (r *paymentRepository) FulfillBySession(ctx context.Context, sessionID string) (*model.Payment, bool, error) {
	var (
		p       model.Payment
		granted bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("stripe_session_id = ?", sessionID).
			First(&p).Error; err != nil {
			return err
		}
		if p.Fulfilled {
			return nil
		}
		if p.CreatorID == nil {
			return errors.New("payment has no creator")
		}
		if err := tx.Model(&model.Creator{}).
			Where("id = ?", p.CreatorID).
			UpdateColumn("credits", gorm.Expr("credits + ?", p.CreditsGranted)).Error; err != nil {
			return err
		}
		now := time.Now()
		res := tx.Model(&model.Payment{}).
			Where("id = ? AND fulfilled = ?", p.ID, false).
			Updates(map[string]interface{}{
				"fulfilled":    true,
				"fulfilled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("payment fulfilled state changed under lock")
		}
		p.Fulfilled = true
		p.FulfilledAt = &now
		granted = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &p, granted, nil
}
