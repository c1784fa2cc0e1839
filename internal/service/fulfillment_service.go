package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/factumhumanum/registry-backend/internal/payments"
	"github.com/factumhumanum/registry-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotPaid means the checkout session exists but its payment has not
	// completed; no Payment row is created for it.
	ErrNotPaid      = errors.New("checkout session is not paid")
	ErrNoPurchaser  = errors.New("checkout session has no purchaser email")
	ErrEmptySession = errors.New("missing checkout session")
)

// FulfillmentResult reports whether this invocation granted the credits or
// found them already granted by an earlier (or concurrent) one.
type FulfillmentResult struct {
	Payment          *model.Payment
	AlreadyProcessed bool
}

// FulfillmentService converts a confirmed checkout into granted credits
// exactly once. The redirect callback and the webhook both call Fulfill with
// the same session; the storage layer's unique session index and row lock
// make the race harmless.
type FulfillmentService interface {
	Fulfill(ctx context.Context, sess *payments.CheckoutSession) (*FulfillmentResult, error)
}

type fulfillmentService struct {
	payments       repository.PaymentRepository
	creators       repository.CreatorRepository
	defaultCredits int
	priceCents     int
	currency       string
	logger         *slog.Logger
}

func NewFulfillmentService(paymentRepo repository.PaymentRepository, creators repository.CreatorRepository, defaultCredits, priceCents int, currency string, logger *slog.Logger) FulfillmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &fulfillmentService{
		payments:       paymentRepo,
		creators:       creators,
		defaultCredits: defaultCredits,
		priceCents:     priceCents,
		currency:       currency,
		logger:         logger,
	}
}

func (s *fulfillmentService) Fulfill(ctx context.Context, sess *payments.CheckoutSession) (*FulfillmentResult, error) {
	if sess == nil || sess.ID == "" {
		return nil, ErrEmptySession
	}
	if !sess.Paid() {
		return nil, ErrNotPaid
	}

	existing, err := s.payments.FindBySessionID(ctx, sess.ID)
	switch {
	case err == nil:
		if existing.Fulfilled {
			return &FulfillmentResult{Payment: existing, AlreadyProcessed: true}, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.createPending(ctx, sess); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	p, granted, err := s.payments.FulfillBySession(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if granted {
		s.logger.Info("payment fulfilled",
			"session_id", sess.ID, "credits", p.CreditsGranted, "email", p.Email)
	}
	return &FulfillmentResult{Payment: p, AlreadyProcessed: !granted}, nil
}

func (s *fulfillmentService) createPending(ctx context.Context, sess *payments.CheckoutSession) error {
	email := strings.TrimSpace(strings.ToLower(sess.PurchaserEmail()))
	if email == "" {
		return ErrNoPurchaser
	}
	creator, err := s.creators.FindOrCreateByEmail(ctx, email, nameFromEmail(email))
	if err != nil {
		return err
	}

	amount := int(sess.AmountTotal)
	if amount == 0 {
		amount = s.priceCents
	}
	currency := strings.ToUpper(sess.Currency)
	if currency == "" {
		currency = s.currency
	}
	var chargeID *string
	if sess.PaymentIntentID != "" {
		chargeID = &sess.PaymentIntentID
	}

	p := &model.Payment{
		ID:              uuid.New(),
		CreatorID:       &creator.ID,
		Email:           email,
		StripeChargeID:  chargeID,
		StripeSessionID: sess.ID,
		AmountCents:     amount,
		Currency:        currency,
		CreditsGranted:  sess.Credits(s.defaultCredits),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		// the other entry point won the insert race; fulfill its row
		if repository.IsDuplicate(err) {
			return nil
		}
		return err
	}
	return nil
}

// nameFromEmail derives a display name for creators first seen through a
// purchase: the local part of their email.
func nameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
