package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/factumhumanum/registry-backend/internal/payments"
	"github.com/factumhumanum/registry-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type stubCheckoutClient struct {
	parseSess    *payments.CheckoutSession
	parseHandled bool
	parseErr     error
}

func (s *stubCheckoutClient) CreateCheckoutSession(ctx context.Context, email string, credits int) (*payments.CheckoutSession, error) {
	return &payments.CheckoutSession{ID: "cs_new", URL: "https://checkout.stripe.test/cs_new"}, nil
}

func (s *stubCheckoutClient) GetCheckoutSession(ctx context.Context, id string) (*payments.CheckoutSession, error) {
	return s.parseSess, nil
}

func (s *stubCheckoutClient) ParseWebhook(payload []byte, sigHeader string) (*payments.CheckoutSession, bool, error) {
	return s.parseSess, s.parseHandled, s.parseErr
}

type stubFulfillmentService struct {
	result *service.FulfillmentResult
	err    error
	calls  int
}

func (s *stubFulfillmentService) Fulfill(ctx context.Context, sess *payments.CheckoutSession) (*service.FulfillmentResult, error) {
	s.calls++
	return s.result, s.err
}

func webhookRequest(h *PaymentHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	rec := httptest.NewRecorder()
	_ = h.Webhook(e.NewContext(req, rec))
	return rec
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc := &stubFulfillmentService{}
	h := NewPaymentHandler(&stubCheckoutClient{parseErr: payments.ErrSignature}, svc, 5)

	rec := webhookRequest(h, "{}")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status=%d want 403", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("fulfillment must not run on signature failure")
	}
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	h := NewPaymentHandler(&stubCheckoutClient{parseErr: payments.ErrPayload}, &stubFulfillmentService{}, 5)

	rec := webhookRequest(h, "not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", rec.Code)
	}
}

func TestWebhookIgnoresUnhandledEvents(t *testing.T) {
	svc := &stubFulfillmentService{}
	h := NewPaymentHandler(&stubCheckoutClient{parseHandled: false}, svc, 5)

	rec := webhookRequest(h, "{}")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("fulfillment must not run for unhandled events")
	}
}

func TestWebhookFulfillsCompletedCheckout(t *testing.T) {
	svc := &stubFulfillmentService{result: &service.FulfillmentResult{Payment: &model.Payment{CreditsGranted: 5}}}
	client := &stubCheckoutClient{
		parseSess:    &payments.CheckoutSession{ID: "cs_hook", PaymentStatus: "paid"},
		parseHandled: true,
	}
	h := NewPaymentHandler(client, svc, 5)

	rec := webhookRequest(h, "{}")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if svc.calls != 1 {
		t.Fatalf("fulfillment calls=%d want 1", svc.calls)
	}
}

func TestWebhookRetriesOnProcessingError(t *testing.T) {
	svc := &stubFulfillmentService{err: context.DeadlineExceeded}
	client := &stubCheckoutClient{
		parseSess:    &payments.CheckoutSession{ID: "cs_hook", PaymentStatus: "paid"},
		parseHandled: true,
	}
	h := NewPaymentHandler(client, svc, 5)

	rec := webhookRequest(h, "{}")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500 so the processor retries", rec.Code)
	}
}

func TestCheckoutRequiresEmail(t *testing.T) {
	h := NewPaymentHandler(&stubCheckoutClient{}, &stubFulfillmentService{}, 5)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/credits/checkout", strings.NewReader(`{"email":"no-at-sign"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.Checkout(e.NewContext(req, rec))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", rec.Code)
	}
}

func TestCheckoutUnconfigured(t *testing.T) {
	h := NewPaymentHandler(nil, &stubFulfillmentService{}, 5)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/credits/checkout", strings.NewReader(`{"email":"a@b.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.Checkout(e.NewContext(req, rec))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want 503", rec.Code)
	}
}
