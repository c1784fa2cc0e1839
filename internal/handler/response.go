package handler

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// NoCreditsResponse steers a submitter with an empty balance to the
// purchase flow instead of reporting a plain error.
type NoCreditsResponse struct {
	Error       errorPayload `json:"error"`
	PurchaseURL string       `json:"purchaseUrl"`
}

func NewNoCreditsResponse(purchaseURL string) NoCreditsResponse {
	return NoCreditsResponse{
		Error: errorPayload{
			Code:    "no_credits",
			Message: "no registration credits available; purchase credits to register works",
		},
		PurchaseURL: purchaseURL,
	}
}
