package pvctl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAskDefault(t *testing.T) {
	p := scriptedPrompter("\n")
	val, err := p.Ask("port", "5432")
	require.NoError(t, err)
	require.Equal(t, "5432", val)

	p = scriptedPrompter("5433\n")
	val, err = p.Ask("port", "5432")
	require.NoError(t, err)
	require.Equal(t, "5433", val)
}

func TestAskRequiredReprompts(t *testing.T) {
	p := scriptedPrompter("\n\nreview.example.com\n")
	val, err := p.AskRequired("domain")
	require.NoError(t, err)
	require.Equal(t, "review.example.com", val)
}

func TestAskSecretPipedInput(t *testing.T) {
	// Piped stdin is not a terminal, so the secret falls back to a line
	// read; it must still reject empty values.
	p := scriptedPrompter("\ns3cret\n")
	val, err := p.AskSecret("application secret")
	require.NoError(t, err)
	require.Equal(t, "s3cret", val)
}

func TestAskYesNo(t *testing.T) {
	p := scriptedPrompter("\n")
	v, err := p.AskYesNo("launch now?", true)
	require.NoError(t, err)
	require.True(t, v)

	p = scriptedPrompter("n\n")
	v, err = p.AskYesNo("launch now?", true)
	require.NoError(t, err)
	require.False(t, v)

	p = scriptedPrompter("yes\n")
	v, err = p.AskYesNo("launch now?", false)
	require.NoError(t, err)
	require.True(t, v)
}

func TestAskChoiceDefault(t *testing.T) {
	p := scriptedPrompter("\n")
	idx, err := p.AskChoice("database location", []string{"internal", "external"}, 0)
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	p = scriptedPrompter("2\n")
	idx, err = p.AskChoice("database location", []string{"internal", "external"}, 0)
	require.NoError(t, err)
	require.Equal(t, 1, idx)
}
