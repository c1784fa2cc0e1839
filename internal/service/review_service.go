package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/factumhumanum/registry-backend/internal/mail"
	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/factumhumanum/registry-backend/internal/repository"
	"github.com/google/uuid"
)

type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
)

// ReviewOutcome reports what happened to one work in a review batch.
// Updated is false for works that were already in a terminal state.
type ReviewOutcome struct {
	ID      uuid.UUID
	Updated bool
}

type ReviewService interface {
	Review(ctx context.Context, ids []uuid.UUID, action ReviewAction, notes string) ([]ReviewOutcome, error)
	Queue(ctx context.Context, status model.WorkStatus, limit, offset int) ([]model.Work, int64, error)
}

type reviewService struct {
	works    repository.WorkRepository
	notifier *Notifier
	siteURL  string
}

func NewReviewService(works repository.WorkRepository, notifier *Notifier, siteURL string) ReviewService {
	return &reviewService{works: works, notifier: notifier, siteURL: siteURL}
}

func (s *reviewService) Review(ctx context.Context, ids []uuid.UUID, action ReviewAction, notes string) ([]ReviewOutcome, error) {
	if len(ids) == 0 {
		return nil, errors.New("no works selected")
	}
	var status model.WorkStatus
	switch action {
	case ReviewActionApprove:
		status = model.WorkStatusApproved
	case ReviewActionReject:
		status = model.WorkStatusRejected
	default:
		return nil, errors.New("invalid review action")
	}

	var notesPtr *string
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		notesPtr = &trimmed
	}

	outcomes := make([]ReviewOutcome, 0, len(ids))
	for _, id := range ids {
		affected, err := s.works.MarkReviewedIfPending(ctx, id, status, notesPtr)
		if err != nil {
			return outcomes, err
		}
		outcome := ReviewOutcome{ID: id, Updated: affected > 0}
		outcomes = append(outcomes, outcome)
		if !outcome.Updated {
			continue
		}
		w, err := s.works.FindByID(ctx, id)
		if err != nil || w.Creator == nil {
			continue
		}
		switch status {
		case model.WorkStatusApproved:
			url := fmt.Sprintf("%s/api/works/%s/certificate", s.siteURL, w.ID)
			s.notifier.Send("certificate_approved", mail.CertificateApproved(w, w.Creator, url))
		case model.WorkStatusRejected:
			s.notifier.Send("certificate_rejected", mail.CertificateRejected(w, w.Creator))
		}
	}
	return outcomes, nil
}

func (s *reviewService) Queue(ctx context.Context, status model.WorkStatus, limit, offset int) ([]model.Work, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if status == "" {
		status = model.WorkStatusPendingReview
	}
	return s.works.Search(ctx, "", "", status, limit, offset)
}
