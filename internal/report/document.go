package report

import (
	"fmt"
	"iter"
	"strconv"
	"time"

	"bplog/internal/core"
)

const (
	rowTimeLayout       = "2006-01-02 15:04"
	generatedTimeLayout = "2006-01-02 15:04"
)

// Document is a rendered-ready monthly report, independent of the output format.
type Document struct {
	Labels      Labels
	Window      core.Window
	GeneratedAt time.Time
	Title       string
	Generated   string
	Headers     [5]string
	Rows        [][5]string
}

// Empty reports whether the document has no table rows.
func (d Document) Empty() bool {
	return len(d.Rows) == 0
}

// PageLabel returns the footer text of page n.
func (d Document) PageLabel(n int) string {
	return fmt.Sprintf("%s %d", d.Labels.Page, n)
}

// Build drains seq into a document. The first error from seq aborts the build.
func Build(labels Labels, w core.Window, generatedAt time.Time, seq iter.Seq2[core.Measurement, error]) (Document, error) {
	doc := Document{
		Labels:      labels,
		Window:      w,
		GeneratedAt: generatedAt,
		Title:       fmt.Sprintf("%s - %s", labels.Title, w.Label()),
		Generated:   fmt.Sprintf("%s: %s", labels.Generated, generatedAt.Format(generatedTimeLayout)),
		Headers:     labels.Headers,
	}

	for m, err := range seq {
		if err != nil {
			return Document{}, err
		}
		doc.Rows = append(doc.Rows, [5]string{
			m.Timestamp.Format(rowTimeLayout),
			strconv.Itoa(m.Systolic),
			strconv.Itoa(m.Diastolic),
			strconv.Itoa(m.Pulse),
			labels.Period(m.Period),
		})
	}

	return doc, nil
}
