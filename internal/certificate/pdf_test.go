package certificate

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/google/uuid"
)

func sampleWork() (*model.Work, *model.Creator) {
	creator := &model.Creator{
		ID:    uuid.MustParse("7b0f8ce2-1f7a-4f6a-9f3d-2a6c1f4e8b90"),
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	}
	return &model.Work{
		ID:           uuid.MustParse("d7c1a9e4-52b3-4d7f-8e21-9c0b6a3f5d18"),
		CreatorID:    creator.ID,
		Title:        "Notes on the Analytical Engine",
		Description:  "An annotated translation with original commentary.",
		Category:     model.CategoryWriting,
		CreationDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:       model.WorkStatusApproved,
		RegisteredAt: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
	}, creator
}

func TestRenderDeterministic(t *testing.T) {
	w, c := sampleWork()
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	first, err := Render(w, c, now)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	second, err := Render(w, c, now)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("same inputs and clock must produce identical bytes")
	}
}

func TestRenderProducesPDF(t *testing.T) {
	w, c := sampleWork()
	out, err := Render(w, c, time.Now())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header")
	}
}

func TestRenderMissingInput(t *testing.T) {
	w, c := sampleWork()
	if _, err := Render(nil, c, time.Now()); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("err=%v want ErrMissingInput", err)
	}
	if _, err := Render(w, nil, time.Now()); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("err=%v want ErrMissingInput", err)
	}
}

func TestRenderOmitsEmptyDescription(t *testing.T) {
	w, c := sampleWork()
	w.Description = ""
	if _, err := Render(w, c, time.Now()); err != nil {
		t.Fatalf("render failed: %v", err)
	}
}
