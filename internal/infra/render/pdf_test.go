package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
	"github.com/bryanwahyu/privacy-prism/internal/infra/ai/prompt"
)

func TestSections_CatalogOrderThenExtras(t *testing.T) {
	p := NewPDF(prompt.Default())

	got := p.Sections(map[string]string{
		"zeta":                   "z",
		prompt.KeyManipulability: "m",
		prompt.KeyExposure:       "e",
		"alpha":                  "a",
	})

	require.Len(t, got, 4)
	assert.Equal(t, Section{Heading: "Exposure (Exposure Sentinel)", Body: "e"}, got[0])
	assert.Equal(t, Section{Heading: "Manipulability (Manipulability Watch)", Body: "m"}, got[1])
	assert.Equal(t, "alpha", got[2].Heading)
	assert.Equal(t, "zeta", got[3].Heading)
}

func TestRender(t *testing.T) {
	p := NewPDF(prompt.Default())
	p.Compress = false
	p.Now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	data, err := p.Render(domain.Document{
		Content: "I'm at the café on 5th street with my kids",
		Results: map[string]string{
			prompt.KeyExposure:  "Location and family members are exposed.",
			prompt.KeyInference: "Routine can be inferred.",
		},
		Summary: "Overall risk: High",
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	s := string(data)
	assert.True(t, strings.Contains(s, "Exposure Sentinel"))
	assert.True(t, strings.Contains(s, "Overall risk: High"))
	assert.True(t, strings.Contains(s, "Generated by Privacy Prism"))
	assert.Equal(t, ContentTypePDF, p.ContentType())
}

func TestRender_LongContentPaginates(t *testing.T) {
	p := NewPDF(nil)

	data, err := p.Render(domain.Document{
		Content:    strings.Repeat("A very long post about my daily commute. ", 800),
		Results:    map[string]string{"exposure": "lots"},
		Timestamp:  "2025-03-01T12:00:00Z",
		FooterText: "Confidential",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
