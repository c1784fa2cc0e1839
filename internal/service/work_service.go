package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/factumhumanum/registry-backend/internal/mail"
	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/factumhumanum/registry-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// ErrNoCredits is the insufficient-credit condition; handlers steer the
// caller to the purchase flow rather than reporting a generic failure.
var ErrNoCredits = repository.ErrNoCredits

type RegisterWorkInput struct {
	Name         string
	Email        string
	Title        string
	Description  string
	Category     model.WorkCategory
	CreationDate time.Time
	WorkLink     *string
	FileURL      *string
}

type WorkService interface {
	Register(ctx context.Context, in RegisterWorkInput) (*model.Work, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Work, error)
	// Search lists approved works for the public registry.
	Search(ctx context.Context, query string, category model.WorkCategory, limit, offset int) ([]model.Work, int64, error)
}

type workService struct {
	works         repository.WorkRepository
	creators      repository.CreatorRepository
	notifier      *Notifier
	siteURL       string
	reviewEnabled bool
}

func NewWorkService(works repository.WorkRepository, creators repository.CreatorRepository, notifier *Notifier, siteURL string, reviewEnabled bool) WorkService {
	return &workService{
		works:         works,
		creators:      creators,
		notifier:      notifier,
		siteURL:       siteURL,
		reviewEnabled: reviewEnabled,
	}
}

func (s *workService) Register(ctx context.Context, in RegisterWorkInput) (*model.Work, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" || len(in.Name) > 255 {
		return nil, errors.New("invalid name")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, errors.New("invalid email")
	}
	if in.Title == "" || len(in.Title) > 255 {
		return nil, errors.New("invalid title")
	}
	if in.Description == "" {
		return nil, errors.New("invalid description")
	}
	if !in.Category.Valid() {
		return nil, errors.New("invalid category")
	}
	if in.CreationDate.IsZero() {
		return nil, errors.New("creation date is required")
	}

	creator, err := s.creators.FindOrCreateByEmail(ctx, in.Email, in.Name)
	if err != nil {
		return nil, err
	}

	status := model.WorkStatusPendingReview
	if !s.reviewEnabled {
		status = model.WorkStatusApproved
	}
	w := &model.Work{
		ID:           uuid.New(),
		CreatorID:    creator.ID,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		CreationDate: in.CreationDate,
		FileURL:      in.FileURL,
		WorkLink:     in.WorkLink,
		Status:       status,
	}
	if err := s.works.CreateWithDebit(ctx, w); err != nil {
		return nil, err
	}
	w.Creator = creator

	if s.reviewEnabled {
		s.notifier.Send("work_received", mail.WorkReceived(w, creator))
	} else {
		s.notifier.Send("certificate_approved", mail.CertificateApproved(w, creator, s.certificateURL(w.ID)))
	}
	return w, nil
}

func (s *workService) Get(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	w, err := s.works.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *workService) Search(ctx context.Context, query string, category model.WorkCategory, limit, offset int) ([]model.Work, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if category != "" && !category.Valid() {
		return nil, 0, errors.New("invalid category")
	}
	return s.works.Search(ctx, strings.TrimSpace(query), category, model.WorkStatusApproved, limit, offset)
}

func (s *workService) certificateURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/api/works/%s/certificate", s.siteURL, id)
}
