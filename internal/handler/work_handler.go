package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/factumhumanum/registry-backend/internal/service"
	"github.com/factumhumanum/registry-backend/internal/storage"
	"github.com/factumhumanum/registry-backend/internal/upload"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type WorkHandler struct {
	svc   service.WorkService
	files storage.FileStore
}

func NewWorkHandler(svc service.WorkService, files storage.FileStore) *WorkHandler {
	return &WorkHandler{svc: svc, files: files}
}

type CreatorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type WorkResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	CategoryLabel string           `json:"categoryLabel"`
	CreationDate  string           `json:"creationDate"`
	Status        string           `json:"status"`
	WorkLink      *string          `json:"workLink,omitempty"`
	FileURL       *string          `json:"fileUrl,omitempty"`
	RegisteredAt  string           `json:"registeredAt"`
	ReviewedAt    *string          `json:"reviewedAt,omitempty"`
	Creator       *CreatorResponse `json:"creator,omitempty"`
}

type WorkListResponse struct {
	Works []WorkResponse `json:"works"`
	Total int64          `json:"total"`
}

// Register handles the multipart registration form. The optional work file
// is validated and stored before the work row is created; the credit debit
// and the insert are atomic in the service below.
func (h *WorkHandler) Register(c echo.Context) error {
	category := model.WorkCategory(c.FormValue("category"))
	in := service.RegisterWorkInput{
		Name:        c.FormValue("name"),
		Email:       c.FormValue("email"),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    category,
	}
	if raw := c.FormValue("creation_date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "creation_date must be YYYY-MM-DD"))
		}
		in.CreationDate = d
	}
	if link := c.FormValue("work_link"); link != "" {
		in.WorkLink = &link
	}

	fh, err := c.FormFile("work_file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid file upload"))
	}
	if fh != nil {
		if err := upload.Validate(fh.Filename, fh.Size); err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_file", err.Error()))
		}
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unreadable file upload"))
		}
		defer src.Close()
		name := fmt.Sprintf("%s.%s", uuid.NewString(), upload.Ext(fh.Filename))
		url, err := h.files.Save(c.Request().Context(), name, fh.Header.Get("Content-Type"), src)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to store work file"))
		}
		in.FileURL = &url
	}

	w, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrNoCredits) {
			return c.JSON(http.StatusPaymentRequired, NewNoCreditsResponse("/api/credits/checkout"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toWorkResponse(w))
}

func (h *WorkHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	w, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "work not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch work"))
	}
	return c.JSON(http.StatusOK, toWorkResponse(w))
}

func (h *WorkHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	works, total, err := h.svc.Search(c.Request().Context(),
		c.QueryParam("q"),
		model.WorkCategory(c.QueryParam("category")),
		limit, offset)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
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

func toWorkResponse(w *model.Work) WorkResponse {
	resp := WorkResponse{
		ID:            w.ID.String(),
		Title:         w.Title,
		Description:   w.Description,
		Category:      string(w.Category),
		CategoryLabel: w.Category.Label(),
		CreationDate:  w.CreationDate.Format("2006-01-02"),
		Status:        string(w.Status),
		WorkLink:      w.WorkLink,
		FileURL:       w.FileURL,
		RegisteredAt:  w.RegisteredAt.Format(time.RFC3339),
	}
	if w.ReviewedAt != nil {
		reviewed := w.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewed
	}
	if w.Creator != nil {
		resp.Creator = &CreatorResponse{
			ID:    w.Creator.ID.String(),
			Name:  w.Creator.Name,
			Email: w.Creator.Email,
		}
	}
	return resp
}
