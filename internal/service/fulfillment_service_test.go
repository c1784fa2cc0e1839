package service

import (
	"context"
	"errors"
	"testing"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/factumhumanum/registry-backend/internal/payments"
)

func paidSession(id string) *payments.CheckoutSession {
	return &payments.CheckoutSession{
		ID:              id,
		PaymentIntentID: "pi_123",
		PaymentStatus:   "paid",
		AmountTotal:     1000,
		Currency:        "gbp",
		Metadata:        map[string]string{"email": "buyer@example.com", "credits": "5"},
	}
}

func TestFulfillGrantsCreditsOnce(t *testing.T) {
	creators := newMockCreatorRepo()
	paymentRepo := newMockPaymentRepo(creators)
	svc := NewFulfillmentService(paymentRepo, creators, 5, 200, "GBP", nil)

	res, err := svc.Fulfill(context.Background(), paidSession("cs_a"))
	if err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}
	if res.AlreadyProcessed {
		t.Fatalf("first fulfillment reported as already processed")
	}
	if !res.Payment.Fulfilled || res.Payment.CreditsGranted != 5 {
		t.Fatalf("payment=%+v want fulfilled with 5 credits", res.Payment)
	}

	c, err := creators.FindByEmail(context.Background(), "buyer@example.com")
	if err != nil {
		t.Fatalf("creator not created: %v", err)
	}
	if c.Credits != 5 {
		t.Fatalf("credits=%d want 5", c.Credits)
	}
	if c.Name != "buyer" {
		t.Fatalf("name=%q want local part of email", c.Name)
	}
}

func TestFulfillSecondCallIsNoOp(t *testing.T) {
	creators := newMockCreatorRepo()
	paymentRepo := newMockPaymentRepo(creators)
	svc := NewFulfillmentService(paymentRepo, creators, 5, 200, "GBP", nil)

	sess := paidSession("cs_b")
	if _, err := svc.Fulfill(context.Background(), sess); err != nil {
		t.Fatalf("first fulfill failed: %v", err)
	}
	res, err := svc.Fulfill(context.Background(), sess)
	if err != nil {
		t.Fatalf("second fulfill failed: %v", err)
	}
	if !res.AlreadyProcessed {
		t.Fatalf("second fulfillment must report already processed")
	}

	c, _ := creators.FindByEmail(context.Background(), "buyer@example.com")
	if c.Credits != 5 {
		t.Fatalf("credits=%d want 5 after double fulfillment", c.Credits)
	}
}

func TestFulfillUnpaidSession(t *testing.T) {
	creators := newMockCreatorRepo()
	paymentRepo := newMockPaymentRepo(creators)
	svc := NewFulfillmentService(paymentRepo, creators, 5, 200, "GBP", nil)

	sess := paidSession("cs_c")
	sess.PaymentStatus = "unpaid"
	if _, err := svc.Fulfill(context.Background(), sess); !errors.Is(err, ErrNotPaid) {
		t.Fatalf("err=%v want ErrNotPaid", err)
	}
	if len(paymentRepo.bySession) != 0 {
		t.Fatalf("unpaid session must not create a payment row")
	}
}

func TestFulfillMissingSession(t *testing.T) {
	creators := newMockCreatorRepo()
	svc := NewFulfillmentService(newMockPaymentRepo(creators), creators, 5, 200, "GBP", nil)

	if _, err := svc.Fulfill(context.Background(), nil); !errors.Is(err, ErrEmptySession) {
		t.Fatalf("err=%v want ErrEmptySession", err)
	}
	if _, err := svc.Fulfill(context.Background(), &payments.CheckoutSession{}); !errors.Is(err, ErrEmptySession) {
		t.Fatalf("err=%v want ErrEmptySession", err)
	}
}

func TestFulfillMissingPurchaserEmail(t *testing.T) {
	creators := newMockCreatorRepo()
	svc := NewFulfillmentService(newMockPaymentRepo(creators), creators, 5, 200, "GBP", nil)

	sess := paidSession("cs_d")
	sess.Metadata = nil
	sess.CustomerEmail = ""
	if _, err := svc.Fulfill(context.Background(), sess); !errors.Is(err, ErrNoPurchaser) {
		t.Fatalf("err=%v want ErrNoPurchaser", err)
	}
}

func TestFulfillExistingCreatorKeepsName(t *testing.T) {
	creators := newMockCreatorRepo()
	paymentRepo := newMockPaymentRepo(creators)
	creators.add(&model.Creator{Name: "Ada Lovelace", Email: "buyer@example.com", Credits: 2})
	svc := NewFulfillmentService(paymentRepo, creators, 5, 200, "GBP", nil)

	if _, err := svc.Fulfill(context.Background(), paidSession("cs_e")); err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}
	c, _ := creators.FindByEmail(context.Background(), "buyer@example.com")
	if c.Name != "Ada Lovelace" {
		t.Fatalf("name=%q must not be overwritten", c.Name)
	}
	if c.Credits != 7 {
		t.Fatalf("credits=%d want 7", c.Credits)
	}
}
