package certificate

import (
	"bytes"
	"errors"
	"time"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/go-pdf/fpdf"
)

var ErrMissingInput = errors.New("certificate requires a work and its creator")

const (
	longDate     = "January 2, 2006"
	longDateTime = "January 2, 2006 at 3:04 PM"
)

// Render produces the certificate PDF for a registered work. It touches no
// storage or network; callers pass the work, its creator and the clock. With
// a fixed now the output bytes are identical across calls, since the
// document's creation and modification dates are pinned to it.
func Render(w *model.Work, creator *model.Creator, now time.Time) ([]byte, error) {
	if w == nil || creator == nil {
		return nil, ErrMissingInput
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle("Certificate of Creation", true)
	pdf.SetMargins(20, 18, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// title block
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetTextColor(31, 71, 136)
	pdf.CellFormat(0, 16, tr("CERTIFICATE OF CREATION"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 13)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 9, tr("Human-Created Work Registration"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 6, tr("This is to certify that "+creator.Name+" has registered the following creative work:"), "", "L", false)
	pdf.Ln(4)

	rows := [][2]string{
		{"Title:", w.Title},
		{"Creator:", creator.Name},
		{"Email:", creator.Email},
		{"Category:", w.Category.Label()},
		{"Creation Date:", w.CreationDate.Format(longDate)},
		{"Registration ID:", w.ID.String()},
		{"Registered On:", w.RegisteredAt.Format(longDateTime)},
	}
	pdf.SetFillColor(232, 240, 247)
	pdf.SetDrawColor(128, 128, 128)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(42, 9, tr(row[0]), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 9, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	if w.Description != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, tr("Description:"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(w.Description), "", "L", false)
		pdf.Ln(4)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(128, 128, 128)
	pdf.MultiCell(0, 5,
		tr("This certificate verifies that the above work has been registered as human-created.\n"+
			"Certificate generated on "+now.Format(longDate)),
		"", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
