package infra

// pdf.go — Lead summary sheet generation using go-pdf/fpdf.
// A5 portrait one-pager with:
//   - Lead name header and status badge line
//   - Contact block (phone, email, city)
//   - Preference block (property type, BHK, purpose, timeline, source)
//   - Budget range
//   - Notes and tags
//
// The output file is saved to storagePath/lead_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"leadhub/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateLeadPDF renders a printable summary sheet for one buyer lead.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateLeadPDF(b *model.Buyer, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("lead_%s.pdf", b.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "LeadHub", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Buyer Lead Summary", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, b.FullName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Status: %s    Captured: %s", b.Status, b.CreatedAt.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	labelW := contentW * 0.35
	valueW := contentW * 0.65

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(valueW, 6, value, "", 1, "L", false, 0, "")
	}

	opt := func(s *string) string {
		if s == nil {
			return "-"
		}
		return *s
	}

	// ── Contact ──────────────────────────────────────────────────────────────
	row("Phone", b.Phone)
	row("Email", opt(b.Email))
	row("City", b.City)
	pdf.Ln(2)

	// ── Preferences ──────────────────────────────────────────────────────────
	row("Property type", b.PropertyType)
	row("BHK", opt(b.BHK))
	row("Purpose", b.Purpose)
	row("Timeline", b.Timeline)
	row("Source", b.Source)
	pdf.Ln(2)

	// ── Budget ───────────────────────────────────────────────────────────────
	budget := "-"
	switch {
	case b.BudgetMin != nil && b.BudgetMax != nil:
		budget = fmt.Sprintf("%d - %d", *b.BudgetMin, *b.BudgetMax)
	case b.BudgetMin != nil:
		budget = fmt.Sprintf("from %d", *b.BudgetMin)
	case b.BudgetMax != nil:
		budget = fmt.Sprintf("up to %d", *b.BudgetMax)
	}
	row("Budget", budget)

	if len(b.Tags) > 0 {
		row("Tags", strings.Join(b.Tags, ", "))
	}

	// ── Notes ────────────────────────────────────────────────────────────────
	if b.Notes != nil && *b.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.MultiCell(contentW, 4, *b.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
