package pvctl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasPlaceholder(t *testing.T) {
	require.True(t, HasPlaceholder("REPLACE_ME_ID"))
	require.True(t, HasPlaceholder("replace_me_id"))
	require.True(t, HasPlaceholder("abcREPLACE_MExyz"))
	require.False(t, HasPlaceholder("a-real-client-id"))
	require.False(t, HasPlaceholder(""))
}

func TestValidProfile(t *testing.T) {
	require.True(t, ValidProfile("custom-certs,internal-db"))
	require.True(t, ValidProfile("letsencrypt"))
	require.True(t, ValidProfile("internal-db,letsencrypt"))
	require.False(t, ValidProfile("internal-db"))
	require.False(t, ValidProfile(""))
	require.False(t, ValidProfile("something-else"))
}

func TestConfigProfile(t *testing.T) {
	cfg := Config{CertMethod: ProfileLetsEncrypt}
	require.Equal(t, "letsencrypt,internal-db", cfg.Profile())

	cfg.ExternalDB = true
	require.Equal(t, "letsencrypt", cfg.Profile())

	cfg = Config{CertMethod: ProfileCustomCerts}
	require.Equal(t, "custom-certs,internal-db", cfg.Profile())
}

func writeCertFiles(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "certs"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, certFileCrt), []byte("crt"), 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(dir, certFileKey), []byte("key"), 0o640))
}

func TestDetectProfileCustomCertsInternalDB(t *testing.T) {
	dir := t.TempDir()
	writeCertFiles(t, dir)

	// Database host left at its default means the bundled postgres.
	got := DetectProfile(dir, map[string]string{})
	require.Equal(t, "custom-certs,internal-db", got)

	got = DetectProfile(dir, map[string]string{"POSTGRES_HOST": "postgres"})
	require.Equal(t, "custom-certs,internal-db", got)
}

func TestDetectProfileLetsEncryptExternalDB(t *testing.T) {
	dir := t.TempDir()

	got := DetectProfile(dir, map[string]string{"POSTGRES_HOST": "db.internal.example.com"})
	require.Equal(t, "letsencrypt", got)
}

func TestDetectProfileOnlyOneCertFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "certs"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, certFileCrt), []byte("crt"), 0o640))

	got := DetectProfile(dir, map[string]string{})
	require.Equal(t, "letsencrypt,internal-db", got)
}

func TestMissingRequiredKeys(t *testing.T) {
	vars := map[string]string{
		"DOMAIN":             "review.example.com",
		"GITLAB_URL":         "https://gitlab.example.com",
		"OIDC_CLIENT_ID":     "abc",
		"OIDC_CLIENT_SECRET": "REPLACE_ME_SECRET",
		"SECRET_KEY":         "deadbeef",
		"POSTGRES_PASSWORD":  "",
		"REDIS_PASSWORD":     "cafe",
	}
	missing := MissingRequiredKeys(vars)
	require.Equal(t, []string{"OIDC_CLIENT_SECRET", "POSTGRES_PASSWORD"}, missing)
}

func TestMissingRequiredKeysAllPresent(t *testing.T) {
	vars := map[string]string{}
	for _, k := range requiredKeys {
		vars[k] = "value"
	}
	require.Empty(t, MissingRequiredKeys(vars))
}

func TestApplicationsURL(t *testing.T) {
	require.Equal(t,
		"https://gitlab.example.com/groups/dev/-/settings/applications",
		applicationsURL("https://gitlab.example.com", "dev"))
	require.Equal(t,
		"https://gitlab.example.com/-/profile/applications",
		applicationsURL("https://gitlab.example.com", ""))
}

func TestCountCustomCACerts(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, 0, CountCustomCACerts(dir))

	caDir := filepath.Join(dir, customCADir)
	require.NoError(t, os.MkdirAll(caDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(caDir, "corp-root.crt"), []byte("x"), 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(caDir, "corp-sub.crt"), []byte("x"), 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(caDir, "readme.txt"), []byte("x"), 0o640))

	require.Equal(t, 2, CountCustomCACerts(dir))
}
