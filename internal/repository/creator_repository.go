package repository

import (
	"context"
	"errors"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IsDuplicate reports whether err is a MySQL duplicate-entry error (1062),
// i.e. a unique constraint rejected the row.
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

type CreatorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Creator, error)
	FindByEmail(ctx context.Context, email string) (*model.Creator, error)
	FindOrCreateByEmail(ctx context.Context, email, name string) (*model.Creator, error)
	AddCredits(ctx context.Context, id uuid.UUID, amount int) error
	ResetCredits(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, email string, limit, offset int) ([]model.Creator, int64, error)
}

type creatorRepository struct {
	db *gorm.DB
}

func NewCreatorRepository(db *gorm.DB) CreatorRepository {
	return &creatorRepository{db: db}
}

func (r *creatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Creator, error) {
	var c model.Creator
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *creatorRepository) FindByEmail(ctx context.Context, email string) (*model.Creator, error) {
	var c model.Creator
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *creatorRepository) FindOrCreateByEmail(ctx context.Context, email, name string) (*model.Creator, error) {
	c, err := r.FindByEmail(ctx, email)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	c = &model.Creator{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		// another request created the same email concurrently
		if IsDuplicate(err) {
			return r.FindByEmail(ctx, email)
		}
		return nil, err
	}
	return c, nil
}

func (r *creatorRepository) AddCredits(ctx context.Context, id uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).
		Model(&model.Creator{}).
		Where("id = ?", id).
		UpdateColumn("credits", gorm.Expr("credits + ?", amount)).Error
}

func (r *creatorRepository) ResetCredits(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Creator{}).
		Where("id = ?", id).
		UpdateColumn("credits", 0).Error
}

func (r *creatorRepository) List(ctx context.Context, email string, limit, offset int) ([]model.Creator, int64, error) {
	var (
		list  []model.Creator
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.Creator{})
	if email != "" {
		q = q.Where("email LIKE ?", "%"+email+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
