package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/factumhumanum/registry-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AdminHandler backs the staff console: the review queue and credit
// adjustments.
type AdminHandler struct {
	reviews service.ReviewService
	credits service.CreditService
}

func NewAdminHandler(reviews service.ReviewService, credits service.CreditService) *AdminHandler {
	return &AdminHandler{reviews: reviews, credits: credits}
}

type ReviewRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
	Notes  string   `json:"notes"`
}

type ReviewOutcomeResponse struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
}

func (h *AdminHandler) ReviewWorks(c echo.Context) error {
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid work id: "+raw))
		}
		ids = append(ids, id)
	}
	outcomes, err := h.reviews.Review(c.Request().Context(), ids, service.ReviewAction(req.Action), req.Notes)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	resp := make([]ReviewOutcomeResponse, 0, len(outcomes))
	for _, o := range outcomes {
		resp = append(resp, ReviewOutcomeResponse{ID: o.ID.String(), Updated: o.Updated})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": resp})
}

func (h *AdminHandler) ListQueue(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	works, total, err := h.reviews.Queue(c.Request().Context(),
		model.WorkStatus(c.QueryParam("status")), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch review queue"))
	}
	resp := WorkListResponse{
		Works: make([]WorkResponse, 0, len(works)),
		Total: total,
	}
	for i := range works {
		resp.Works = append(resp.Works, toWorkResponse(&works[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

type AdjustCreditsRequest struct {
	Action string `json:"action"` // grant or reset
	Amount int    `json:"amount"`
}

type CreatorAdminResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Credits   int    `json:"credits"`
	CreatedAt string `json:"createdAt"`
}

func (h *AdminHandler) AdjustCredits(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid creator id"))
	}
	var req AdjustCreditsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}

	var creator *model.Creator
	switch req.Action {
	case "grant":
		creator, err = h.credits.Grant(c.Request().Context(), id, req.Amount)
	case "reset":
		creator, err = h.credits.Reset(c.Request().Context(), id)
	default:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "action must be grant or reset"))
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "creator not found"))
		case errors.Is(err, service.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to adjust credits"))
		}
	}
	return c.JSON(http.StatusOK, toCreatorAdminResponse(creator))
}

func (h *AdminHandler) ListCreators(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	creators, total, err := h.credits.List(c.Request().Context(), c.QueryParam("email"), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch creators"))
	}
	resp := make([]CreatorAdminResponse, 0, len(creators))
	for i := range creators {
		resp = append(resp, toCreatorAdminResponse(&creators[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"creators": resp, "total": total})
}

func toCreatorAdminResponse(c *model.Creator) CreatorAdminResponse {
	return CreatorAdminResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Credits:   c.Credits,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
