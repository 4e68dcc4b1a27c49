package prompt

import (
	"strings"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
)

// Placeholders substituted into templates.
const (
	ContentPlaceholder  = "{{CONTENT}}"
	FindingsPlaceholder = "{{FINDINGS}}"
)

// Catalog is an immutable table of dimension profiles plus the synthesis template.
// It is safe for concurrent use.
type Catalog struct {
	profiles          []domain.DimensionProfile
	index             map[string]int
	synthesisSystem   string
	synthesisTemplate string
}

// NewCatalog builds a catalog; the slice order becomes the reporting order.
func NewCatalog(profiles []domain.DimensionProfile, synthesisSystem, synthesisTemplate string) *Catalog {
	c := &Catalog{
		profiles:          make([]domain.DimensionProfile, len(profiles)),
		index:             make(map[string]int, len(profiles)),
		synthesisSystem:   synthesisSystem,
		synthesisTemplate: synthesisTemplate,
	}
	copy(c.profiles, profiles)
	for i, p := range c.profiles {
		c.index[p.Key] = i
	}
	return c
}

// Default returns the six privacy dimensions and the conductor template.
func Default() *Catalog {
	return NewCatalog(defaultProfiles(), synthesisSystem, synthesisTemplate)
}

func (c *Catalog) Profile(key string) (domain.DimensionProfile, error) {
	i, ok := c.index[key]
	if !ok {
		return domain.DimensionProfile{}, domain.UnknownDimensionError{Key: key}
	}
	return c.profiles[i], nil
}

// Keys lists every registered key in catalog order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.profiles))
	for i, p := range c.profiles {
		keys[i] = p.Key
	}
	return keys
}

// RenderUserMessage substitutes content into the dimension's template verbatim.
func (c *Catalog) RenderUserMessage(key, content string) (string, error) {
	p, err := c.Profile(key)
	if err != nil {
		return "", err
	}
	return strings.Replace(p.UserTemplate, ContentPlaceholder, content, 1), nil
}

func (c *Catalog) SynthesisInstruction() string { return c.synthesisSystem }

// RenderSynthesisMessage lists one finding per outcome, in catalog order, and
// substitutes the content and the findings block into the synthesis template.
// Outcomes whose key is not in the catalog are appended after the known ones.
func (c *Catalog) RenderSynthesisMessage(content string, outcomes []domain.DimensionOutcome) string {
	ordered := make([]domain.DimensionOutcome, 0, len(outcomes))
	byKey := make(map[string]domain.DimensionOutcome, len(outcomes))
	for _, o := range outcomes {
		byKey[o.Key] = o
	}
	for _, p := range c.profiles {
		if o, ok := byKey[p.Key]; ok {
			ordered = append(ordered, o)
		}
	}
	for _, o := range outcomes {
		if _, known := c.index[o.Key]; !known {
			ordered = append(ordered, o)
		}
	}

	lines := make([]string, 0, len(ordered))
	for _, o := range ordered {
		lines = append(lines, FindingLine(o))
	}

	// single pass, so placeholders inside the content are left alone
	r := strings.NewReplacer(
		ContentPlaceholder, content,
		FindingsPlaceholder, strings.Join(lines, "\n"),
	)
	return r.Replace(c.synthesisTemplate)
}

// FindingLine renders "{label} ({codename}): {text-or-error}".
func FindingLine(o domain.DimensionOutcome) string {
	return o.Label + " (" + o.Codename + "): " + o.Finding()
}
