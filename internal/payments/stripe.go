package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	// ErrSignature marks a webhook whose signature did not verify; the
	// payload must not be trusted.
	ErrSignature = errors.New("webhook signature verification failed")
	// ErrPayload marks a webhook body that could not be parsed.
	ErrPayload = errors.New("malformed webhook payload")
)

// CheckoutSession is the slice of a hosted checkout session the rest of the
// system needs; handlers and services never see SDK types.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentIntentID string
	CustomerEmail   string
	PaymentStatus   string
	AmountTotal     int64
	Currency        string
	Metadata        map[string]string
}

func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == "paid"
}

// PurchaserEmail prefers the metadata email stamped at session creation and
// falls back to the email Stripe collected at checkout.
func (s *CheckoutSession) PurchaserEmail() string {
	if email, ok := s.Metadata["email"]; ok && email != "" {
		return email
	}
	return s.CustomerEmail
}

func (s *CheckoutSession) Credits(fallback int) int {
	if raw, ok := s.Metadata["credits"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

type Client interface {
	CreateCheckoutSession(ctx context.Context, email string, credits int) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
	// ParseWebhook verifies the signature and extracts the checkout session
	// from a checkout.session.completed event. The bool is false for event
	// types this system does not handle.
	ParseWebhook(payload []byte, sigHeader string) (*CheckoutSession, bool, error)
}

type StripeClient struct {
	api           *client.API
	priceID       string
	webhookSecret string
	siteURL       string
}

func NewStripeClient(secretKey, webhookSecret, priceID, siteURL string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{
		api:           api,
		priceID:       priceID,
		webhookSecret: webhookSecret,
		siteURL:       siteURL,
	}
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, email string, credits int) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(email),
		SuccessURL:    stripe.String(c.siteURL + "/api/credits/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(c.siteURL + "/api/credits/cancel"),
	}
	params.AddMetadata("email", email)
	params.AddMetadata("credits", strconv.Itoa(credits))

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return fromStripeSession(sess), nil
}

func (c *StripeClient) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	sess, err := c.api.CheckoutSessions.Get(id, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return fromStripeSession(sess), nil
}

func (c *StripeClient) ParseWebhook(payload []byte, sigHeader string) (*CheckoutSession, bool, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
	if err != nil {
		if errors.Is(err, webhook.ErrNotSigned) ||
			errors.Is(err, webhook.ErrInvalidHeader) ||
			errors.Is(err, webhook.ErrNoValidSignature) ||
			errors.Is(err, webhook.ErrTooOld) {
			return nil, false, ErrSignature
		}
		return nil, false, ErrPayload
	}
	if event.Type != "checkout.session.completed" {
		return nil, false, nil
	}
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, false, ErrPayload
	}
	return fromStripeSession(&sess), true, nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            sess.ID,
		URL:           sess.URL,
		CustomerEmail: sess.CustomerEmail,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		Metadata:      sess.Metadata,
	}
	if out.CustomerEmail == "" && sess.CustomerDetails != nil {
		out.CustomerEmail = sess.CustomerDetails.Email
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	return out
}
