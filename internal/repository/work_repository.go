package repository

import (
	"context"
	"errors"
	"time"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoCredits is returned when a registration would drive a creator's
// balance below zero. The debit is a conditional update, so two concurrent
// registrations against a single remaining credit cannot both succeed.
var ErrNoCredits = errors.New("no credits available")

type WorkRepository interface {
	CreateWithDebit(ctx context.Context, w *model.Work) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error)
	Search(ctx context.Context, query string, category model.WorkCategory, status model.WorkStatus, limit, offset int) ([]model.Work, int64, error)
	MarkReviewedIfPending(ctx context.Context, id uuid.UUID, status model.WorkStatus, notes *string) (int64, error)
}

type workRepository struct {
	db *gorm.DB
}

func NewWorkRepository(db *gorm.DB) WorkRepository {
	return &workRepository{db: db}
}

// CreateWithDebit debits one credit and inserts the work in a single
// transaction. Either both happen or neither does.
func (r *workRepository) CreateWithDebit(ctx context.Context, w *model.Work) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Creator{}).
			Where("id = ? AND credits > 0", w.CreatorID).
			UpdateColumn("credits", gorm.Expr("credits - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoCredits
		}
		return tx.Create(w).Error
	})
}

func (r *workRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	var w model.Work
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workRepository) Search(ctx context.Context, query string, category model.WorkCategory, status model.WorkStatus, limit, offset int) ([]model.Work, int64, error) {
	var (
		list  []model.Work
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.Work{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Preload("Creator").
		Order("registered_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// MarkReviewedIfPending transitions a work out of pending_review. The status
// predicate makes terminal states immutable; callers learn from the affected
// row count whether the transition happened.
func (r *workRepository) MarkReviewedIfPending(ctx context.Context, id uuid.UUID, status model.WorkStatus, notes *string) (int64, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"reviewed_at": now,
	}
	if notes != nil {
		updates["reviewer_notes"] = *notes
	}
	res := r.db.WithContext(ctx).
		Model(&model.Work{}).
		Where("id = ? AND status = ?", id, model.WorkStatusPendingReview).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
