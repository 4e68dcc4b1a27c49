package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
)

const (
	ContentTypePDF = "application/pdf"
	DefaultFooter  = "Generated by Privacy Prism"

	font       = "Helvetica"
	lineHeight = 5.5
)

var _ domain.Renderer = (*PDF)(nil)

// PDF renders an analysis as an A4 document with one section per dimension.
type PDF struct {
	Catalog domain.Catalog
	// Compress is off only in tests that inspect the raw stream.
	Compress bool
	Now      func() time.Time
}

func NewPDF(catalog domain.Catalog) *PDF {
	return &PDF{Catalog: catalog, Compress: true, Now: time.Now}
}

func (p *PDF) ContentType() string { return ContentTypePDF }

type Section struct {
	Heading string
	Body    string
}

// Sections lists the dimension results in catalog order with their labels.
// Keys the catalog does not know follow, sorted, under their raw key.
func (p *PDF) Sections(results map[string]string) []Section {
	out := make([]Section, 0, len(results))
	seen := make(map[string]bool, len(results))
	if p.Catalog != nil {
		for _, key := range p.Catalog.Keys() {
			body, ok := results[key]
			if !ok {
				continue
			}
			seen[key] = true
			heading := key
			if prof, err := p.Catalog.Profile(key); err == nil {
				heading = fmt.Sprintf("%s (%s)", prof.Label, prof.Codename)
			}
			out = append(out, Section{Heading: heading, Body: body})
		}
	}

	var rest []string
	for key := range results {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		out = append(out, Section{Heading: key, Body: results[key]})
	}
	return out
}

func (p *PDF) Render(doc domain.Document) ([]byte, error) {
	timestamp := strings.TrimSpace(doc.Timestamp)
	if timestamp == "" {
		now := time.Now
		if p.Now != nil {
			now = p.Now
		}
		timestamp = now().UTC().Format(time.RFC1123)
	}
	footer := strings.TrimSpace(doc.FooterText)
	if footer == "" {
		footer = DefaultFooter
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(p.Compress)
	pdf.SetTitle("Privacy Prism Analysis", true)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(font, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s - page %d/{nb}", footer, pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(font, "B", 18)
	pdf.SetTextColor(30, 30, 60)
	pdf.CellFormat(0, 10, "Privacy Prism Analysis", "", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, tr(timestamp), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	heading := func(text string) {
		pdf.SetFont(font, "B", 12)
		pdf.SetTextColor(30, 30, 60)
		pdf.MultiCell(0, 7, tr(text), "", "L", false)
		pdf.Ln(1)
	}
	body := func(text string) {
		pdf.SetFont(font, "", 10)
		pdf.SetTextColor(20, 20, 20)
		pdf.MultiCell(0, lineHeight, tr(text), "", "L", false)
		pdf.Ln(4)
	}

	heading("Submitted content")
	body(doc.Content)

	for _, s := range p.Sections(doc.Results) {
		heading(s.Heading)
		body(s.Body)
	}

	if strings.TrimSpace(doc.Summary) != "" {
		heading("Overall assessment")
		body(doc.Summary)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
