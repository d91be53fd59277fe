package pvctl

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func scriptedPrompter(input string) *Prompter {
	return &Prompter{in: bufio.NewReader(strings.NewReader(input)), out: io.Discard}
}

func TestMigrateProfileAcceptsDetected(t *testing.T) {
	dir := t.TempDir()
	writeCertFiles(t, dir)

	// Empty line accepts the default (yes).
	p := scriptedPrompter("\n")
	profile, err := migrateProfile(p, dir, map[string]string{})
	require.NoError(t, err)
	require.Equal(t, "custom-certs,internal-db", profile)
}

func TestMigrateProfileManualOverride(t *testing.T) {
	dir := t.TempDir()

	// Decline the guess, then pick option 4 from the fixed menu.
	p := scriptedPrompter("n\n4\n")
	profile, err := migrateProfile(p, dir, map[string]string{"POSTGRES_HOST": "db.example.com"})
	require.NoError(t, err)
	require.Equal(t, ProfileCustomCerts, profile)
}

func TestMigrateProfileMenuRepromptOnGarbage(t *testing.T) {
	dir := t.TempDir()

	p := scriptedPrompter("n\nnope\n2\n")
	profile, err := migrateProfile(p, dir, map[string]string{})
	require.NoError(t, err)
	require.Equal(t, ProfileLetsEncrypt, profile)
}

func TestImageTagUpsertNeverDuplicates(t *testing.T) {
	ef := NewEnvFile()
	ef.addRaw("# config")
	ef.addRaw(`DOMAIN="review.example.com"`)
	ef.addRaw(`FRONTEND_TAG="1.0.0"`)

	for i := 0; i < 3; i++ {
		ef.Set("FRONTEND_TAG", "1.1.0")
		ef.Set("BACKEND_TAG", "1.1.1")
	}

	rendered := ef.Render()
	require.Equal(t, 1, strings.Count(rendered, "FRONTEND_TAG="))
	require.Equal(t, 1, strings.Count(rendered, "BACKEND_TAG="))
	require.Contains(t, rendered, `FRONTEND_TAG="1.1.0"`)
}
