package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	coreFontFamily = "Helvetica"
	utf8FontFamily = "report"

	rowHeight    = 10.0
	bottomMargin = 20.0
)

var columnWidths = [5]float64{45, 30, 30, 30, 30}

// ErrFontRequired is returned when a label set needs a UTF-8 font and none is configured.
var ErrFontRequired = errors.New("label set requires a UTF-8 font file")

// PDFRenderer draws a Document as an A4 portrait PDF.
type PDFRenderer struct {
	// FontPath is a TrueType font loaded for all text. Empty means the Helvetica core font.
	FontPath string
	// Uncompressed disables stream compression, which keeps text searchable in tests.
	Uncompressed bool
}

// Supports returns ErrFontRequired when labels cannot be drawn with r.
func (r PDFRenderer) Supports(labels Labels) error {
	if r.FontPath == "" && labels.Unicode {
		return ErrFontRequired
	}
	return nil
}

// Render writes doc as PDF to w.
func (r PDFRenderer) Render(w io.Writer, doc Document) error {
	if err := r.Supports(doc.Labels); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!r.Uncompressed)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetAutoPageBreak(true, bottomMargin)

	family := coreFontFamily
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.FontPath != "" {
		pdf.AddUTF8Font(utf8FontFamily, "", r.FontPath)
		family = utf8FontFamily
		tr = func(s string) string { return s }
	}
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("bplog", true)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(family, "", 16)
		pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
		pdf.SetFont(family, "", 10)
		pdf.CellFormat(0, 10, tr(doc.Generated), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 10, tr(doc.PageLabel(pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(family, "", 12)

	if doc.Empty() {
		pdf.CellFormat(0, 10, tr(doc.Labels.NoRecords), "", 1, "", false, 0, "")
	} else {
		drawTable(pdf, doc, tr)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func drawTable(pdf *fpdf.Fpdf, doc Document, tr func(string) string) {
	_, pageHeight := pdf.GetPageSize()

	header := func() {
		for i, h := range doc.Headers {
			pdf.CellFormat(columnWidths[i], rowHeight, tr(h), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	header()
	for _, row := range doc.Rows {
		// Break before the row so the column header repeats on every page.
		if pdf.GetY()+rowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			header()
		}
		for i, cell := range row {
			pdf.CellFormat(columnWidths[i], rowHeight, tr(cell), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
