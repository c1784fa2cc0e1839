package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/factumhumanum/registry-backend/internal/payments"
	"github.com/factumhumanum/registry-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	checkout payments.Client
	svc      service.FulfillmentService
	credits  int
}

func NewPaymentHandler(checkout payments.Client, svc service.FulfillmentService, creditsPerPurchase int) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, svc: svc, credits: creditsPerPurchase}
}

type CheckoutRequest struct {
	Email string `json:"email"`
}

type CheckoutResponse struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
}

type FulfillmentResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	Credits          int    `json:"credits,omitempty"`
	AlreadyProcessed bool   `json:"alreadyProcessed,omitempty"`
}

func (h *PaymentHandler) Checkout(c echo.Context) error {
	if h.checkout == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("payment_unavailable", "payment system not configured"))
	}
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "a valid email address is required"))
	}
	sess, err := h.checkout.CreateCheckoutSession(c.Request().Context(), email, h.credits)
	if err != nil {
		return c.JSON(http.StatusBadGateway, NewErrorResponse("payment_error", "could not start checkout, please try again"))
	}
	return c.JSON(http.StatusOK, CheckoutResponse{SessionID: sess.ID, CheckoutURL: sess.URL})
}

// CheckoutSuccess is the redirect callback after a completed checkout. It
// retrieves the session from the processor and runs the same reconciler the
// webhook uses.
func (h *PaymentHandler) CheckoutSuccess(c echo.Context) error {
	if h.checkout == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("payment_unavailable", "payment system not configured"))
	}
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "no session id provided"))
	}
	sess, err := h.checkout.GetCheckoutSession(c.Request().Context(), sessionID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, NewErrorResponse("payment_error", "could not verify payment, please try again"))
	}
	result, err := h.svc.Fulfill(c.Request().Context(), sess)
	if err != nil {
		if errors.Is(err, service.ErrNotPaid) {
			return c.JSON(http.StatusOK, FulfillmentResponse{
				Success: false,
				Message: "payment was not completed, please try again",
			})
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "error processing payment"))
	}
	msg := "payment successful, credits added to your account"
	if result.AlreadyProcessed {
		msg = "payment already processed"
	}
	return c.JSON(http.StatusOK, FulfillmentResponse{
		Success:          true,
		Message:          msg,
		Credits:          result.Payment.CreditsGranted,
		AlreadyProcessed: result.AlreadyProcessed,
	})
}

func (h *PaymentHandler) CheckoutCancel(c echo.Context) error {
	return c.JSON(http.StatusOK, FulfillmentResponse{
		Success: false,
		Message: "payment cancelled, please try again when ready",
	})
}

// Webhook receives signed processor events. Signature failures are rejected
// without touching state; processing failures return 500 so the processor
// retries on its own schedule.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	if h.checkout == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("payment_unavailable", "payment system not configured"))
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unreadable payload"))
	}
	sess, handled, err := h.checkout.ParseWebhook(body, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payments.ErrSignature) {
			return c.JSON(http.StatusForbidden, NewErrorResponse("invalid_signature", "webhook signature verification failed"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "malformed payload"))
	}
	if !handled {
		return c.NoContent(http.StatusOK)
	}
	if _, err := h.svc.Fulfill(c.Request().Context(), sess); err != nil {
		if errors.Is(err, service.ErrNotPaid) {
			return c.NoContent(http.StatusOK)
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "webhook processing failed"))
	}
	return c.NoContent(http.StatusOK)
}
