package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/factumhumanum/registry-backend/internal/certificate"
	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/factumhumanum/registry-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CertificateHandler struct {
	svc service.WorkService
	now func() time.Time
}

func NewCertificateHandler(svc service.WorkService) *CertificateHandler {
	return &CertificateHandler{svc: svc, now: time.Now}
}

type CertificateResponse struct {
	WorkID      string `json:"workId"`
	Title       string `json:"title"`
	CreatorName string `json:"creatorName"`
	ApprovedAt  string `json:"approvedAt,omitempty"`
	DownloadURL string `json:"downloadUrl"`
}

// PendingCertificateResponse is the placeholder returned for works that are
// not (or not yet) approved; no document is ever rendered for them.
type PendingCertificateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *CertificateHandler) View(c echo.Context) error {
	w, status, err := h.lookup(c)
	if err != nil {
		return err
	}
	if w == nil {
		return c.JSON(http.StatusOK, status)
	}
	resp := CertificateResponse{
		WorkID:      w.ID.String(),
		Title:       w.Title,
		CreatorName: w.Creator.Name,
		DownloadURL: fmt.Sprintf("/api/works/%s/certificate/download", w.ID),
	}
	if w.ReviewedAt != nil {
		resp.ApprovedAt = w.ReviewedAt.Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CertificateHandler) Download(c echo.Context) error {
	w, status, err := h.lookup(c)
	if err != nil {
		return err
	}
	if w == nil {
		return c.JSON(http.StatusConflict, status)
	}
	pdf, err := certificate.Render(w, w.Creator, h.now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to render certificate"))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="certificate_%s.pdf"`, w.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// lookup fetches the work and applies the approval gate. It returns either
// the approved work or the pending placeholder payload.
func (h *CertificateHandler) lookup(c echo.Context) (*model.Work, *PendingCertificateResponse, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, nil, c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	w, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, nil, c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "work not found"))
		}
		return nil, nil, c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch work"))
	}
	if w.Status != model.WorkStatusApproved || w.Creator == nil {
		return nil, &PendingCertificateResponse{
			Status:  string(w.Status),
			Message: "certificate is not available until the work is approved",
		}, nil
	}
	return w, nil, nil
}
