package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
)

func TestDefault_KeysInCatalogOrder(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{
		KeyExposure, KeyInference, KeyAudience, KeyPlatforms, KeyAmplification, KeyManipulability,
	}, c.Keys())
}

func TestDefault_EveryTemplateHasOnePlaceholder(t *testing.T) {
	c := Default()
	for _, key := range c.Keys() {
		p, err := c.Profile(key)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(p.UserTemplate, ContentPlaceholder), key)
		assert.NotEmpty(t, p.SystemInstruction, key)
		assert.NotEmpty(t, p.Label, key)
		assert.NotEmpty(t, p.Codename, key)
	}
	assert.Equal(t, 1, strings.Count(synthesisTemplate, ContentPlaceholder))
	assert.Equal(t, 1, strings.Count(synthesisTemplate, FindingsPlaceholder))
}

func TestProfile_UnknownKey(t *testing.T) {
	_, err := Default().Profile("telepathy")
	var unknown domain.UnknownDimensionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "telepathy", unknown.Key)
}

func TestRenderUserMessage(t *testing.T) {
	c := Default()
	content := `Meet me at 5th & Main, "tonight" <3`

	first, err := c.RenderUserMessage(KeyExposure, content)
	require.NoError(t, err)
	second, err := c.RenderUserMessage(KeyExposure, content)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "\"\"\"\n"+content+"\n\"\"\"")
	assert.NotContains(t, first, ContentPlaceholder)

	_, err = c.RenderUserMessage("nope", content)
	assert.ErrorAs(t, err, &domain.UnknownDimensionError{})
}

func TestRenderUserMessage_PlaceholderInContentIsNotExpanded(t *testing.T) {
	c := NewCatalog([]domain.DimensionProfile{{Key: "k", UserTemplate: "[{{CONTENT}}]"}}, "sys", "{{CONTENT}}|{{FINDINGS}}")
	got, err := c.RenderUserMessage("k", "a {{CONTENT}} b")
	require.NoError(t, err)
	assert.Equal(t, "[a {{CONTENT}} b]", got)
}

func TestRenderSynthesisMessage_CatalogOrderAndFailures(t *testing.T) {
	c := NewCatalog([]domain.DimensionProfile{
		{Key: "a", Label: "Alpha", Codename: "A1", UserTemplate: "{{CONTENT}}"},
		{Key: "b", Label: "Beta", Codename: "B1", UserTemplate: "{{CONTENT}}"},
	}, "sys", "C={{CONTENT}}\nF=\n{{FINDINGS}}")

	// completion order reversed on purpose
	outcomes := []domain.DimensionOutcome{
		{Key: "b", Label: "Beta", Codename: "B1", Status: domain.StatusRejected, Error: "timeout"},
		{Key: "a", Label: "Alpha", Codename: "A1", Status: domain.StatusFulfilled, Text: "fine"},
	}
	got := c.RenderSynthesisMessage("text {{FINDINGS}}", outcomes)
	assert.Equal(t, "C=text {{FINDINGS}}\nF=\nAlpha (A1): fine\nBeta (B1): timeout", got)
}

func TestNewCatalog_CopiesProfiles(t *testing.T) {
	profiles := []domain.DimensionProfile{{Key: "a", Label: "Alpha"}}
	c := NewCatalog(profiles, "", "")
	profiles[0].Label = "mutated"

	p, err := c.Profile("a")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", p.Label)
}
