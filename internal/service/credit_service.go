package service

import (
	"context"
	"errors"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/factumhumanum/registry-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidAmount = errors.New("credit amount must not be negative")

// CreditService covers the administrative grant/reset actions. Payment
// fulfillment grants go through FulfillmentService instead.
type CreditService interface {
	Grant(ctx context.Context, creatorID uuid.UUID, amount int) (*model.Creator, error)
	Reset(ctx context.Context, creatorID uuid.UUID) (*model.Creator, error)
	List(ctx context.Context, email string, limit, offset int) ([]model.Creator, int64, error)
}

type creditService struct {
	creators repository.CreatorRepository
}

func NewCreditService(creators repository.CreatorRepository) CreditService {
	return &creditService{creators: creators}
}

func (s *creditService) Grant(ctx context.Context, creatorID uuid.UUID, amount int) (*model.Creator, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.find(ctx, creatorID); err != nil {
		return nil, err
	}
	if err := s.creators.AddCredits(ctx, creatorID, amount); err != nil {
		return nil, err
	}
	return s.find(ctx, creatorID)
}

func (s *creditService) Reset(ctx context.Context, creatorID uuid.UUID) (*model.Creator, error) {
	if _, err := s.find(ctx, creatorID); err != nil {
		return nil, err
	}
	if err := s.creators.ResetCredits(ctx, creatorID); err != nil {
		return nil, err
	}
	return s.find(ctx, creatorID)
}

func (s *creditService) List(ctx context.Context, email string, limit, offset int) ([]model.Creator, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.creators.List(ctx, email, limit, offset)
}

func (s *creditService) find(ctx context.Context, creatorID uuid.UUID) (*model.Creator, error) {
	c, err := s.creators.FindByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
