package pvctl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunPostChecksMissingFile(t *testing.T) {
	dir := t.TempDir()
	results := RunPostChecks(context.Background(), filepath.Join(dir, ".env"))

	// Fatal, and every remaining post-check is skipped.
	require.Len(t, results, 1)
	require.Equal(t, StatusFail, results[0].Status)
	require.Equal(t, 1, FailCount(results))
}

func writeConfig(t *testing.T, dir string, vars map[string]string) string {
	t.Helper()
	ef := NewEnvFile()
	for _, k := range append(append([]string{}, requiredKeys...), "FRONTEND_TAG", "BACKEND_TAG", "COMPOSE_PROFILES") {
		if v, ok := vars[k]; ok {
			ef.Set(k, v)
		}
	}
	path := filepath.Join(dir, ".env")
	require.NoError(t, ef.Save(path))
	return path
}

func fullConfigVars() map[string]string {
	return map[string]string{
		"DOMAIN":             "review.example.com",
		"GITLAB_URL":         "https://gitlab.example.com",
		"OIDC_CLIENT_ID":     "id",
		"OIDC_CLIENT_SECRET": "secret",
		"SECRET_KEY":         "deadbeef",
		"POSTGRES_PASSWORD":  "pw",
		"REDIS_PASSWORD":     "pw",
		"FRONTEND_TAG":       "1.2.0",
		"BACKEND_TAG":        "1.2.1",
		"COMPOSE_PROFILES":   "letsencrypt,internal-db",
	}
}

func TestRunPostChecksProfileMissingCertTag(t *testing.T) {
	dir := t.TempDir()
	vars := fullConfigVars()
	vars["COMPOSE_PROFILES"] = "internal-db"
	path := writeConfig(t, dir, vars)

	results := RunPostChecks(context.Background(), path)
	require.GreaterOrEqual(t, FailCount(results), 1)

	last := results[len(results)-1]
	require.Equal(t, StatusFail, last.Status)
	require.Equal(t, "deployment profile", last.Name)
}

func TestRunPostChecksPlaceholderValue(t *testing.T) {
	dir := t.TempDir()
	vars := fullConfigVars()
	vars["OIDC_CLIENT_ID"] = "REPLACE_ME_ID"
	path := writeConfig(t, dir, vars)

	results := RunPostChecks(context.Background(), path)
	var found bool
	for _, r := range results {
		if r.Name == "required variables" {
			found = true
			require.Equal(t, StatusFail, r.Status)
			require.Contains(t, r.Detail, "OIDC_CLIENT_ID")
		}
	}
	require.True(t, found)
}

func TestRunPostChecksCustomCertsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	vars := fullConfigVars()
	vars["COMPOSE_PROFILES"] = "custom-certs,internal-db"
	path := writeConfig(t, dir, vars)

	results := RunPostChecks(context.Background(), path)
	var certFails int
	for _, r := range results {
		if r.Status == StatusFail && strings.HasPrefix(r.Name, "certificate file") {
			certFails++
		}
	}
	require.Equal(t, 2, certFails)
}

func TestRunPostChecksCustomCertsPresent(t *testing.T) {
	dir := t.TempDir()
	writeCertFiles(t, dir)
	vars := fullConfigVars()
	vars["COMPOSE_PROFILES"] = "custom-certs,internal-db"
	path := writeConfig(t, dir, vars)

	results := RunPostChecks(context.Background(), path)
	for _, r := range results {
		if strings.HasPrefix(r.Name, "certificate file") {
			require.Equal(t, StatusPass, r.Status, r.Name)
		}
	}
}

func TestRunPostChecksLocalConfigPasses(t *testing.T) {
	// A fresh local install renders neither DOMAIN nor COMPOSE_PROFILES;
	// the checker must not fail its own renderer's output.
	cfg := Config{
		DeployType:       "local",
		GitLabURL:        "https://gitlab.example.com",
		OIDCClientID:     "id",
		OIDCClientSecret: "secret",
	}
	cfg, err := GenerateSecrets(cfg)
	require.NoError(t, err)
	cfg.FrontendTag = "1.2.0"
	cfg.BackendTag = "1.2.1"

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, BuildEnv(cfg).Save(path))

	results := RunPostChecks(context.Background(), path)
	require.Equal(t, 0, FailCount(results), "%+v", results)
}

func TestRunPostChecksProductionStillRequiresDomain(t *testing.T) {
	// With a profile present the configuration is a production one, and a
	// missing DOMAIN stays fatal.
	dir := t.TempDir()
	vars := fullConfigVars()
	delete(vars, "DOMAIN")
	path := writeConfig(t, dir, vars)

	results := RunPostChecks(context.Background(), path)
	require.GreaterOrEqual(t, FailCount(results), 1)
	require.Equal(t, StatusFail, results[1].Status)
	require.Contains(t, results[1].Detail, "DOMAIN")
}

func TestFailCountIgnoresWarnings(t *testing.T) {
	results := []CheckResult{
		pass("a"),
		warn("b", "best effort"),
		fail("c", "broken"),
		warn("d", "also best effort"),
	}
	require.Equal(t, 1, FailCount(results))
}

type fakeProber struct {
	name      string
	available bool
	inUse     map[int]bool
	err       error
}

func (f fakeProber) Name() string    { return f.name }
func (f fakeProber) Available() bool { return f.available }

func (f fakeProber) InUse(_ context.Context, port int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.inUse[port], nil
}

func TestPortChecksNoBackendWarns(t *testing.T) {
	probers := []PortProber{
		fakeProber{name: "ss", available: false},
		fakeProber{name: "lsof", available: false},
	}
	results := portChecks(context.Background(), probers, []int{80, 443})
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, StatusWarn, r.Status)
	}
	require.Equal(t, 0, FailCount(results))
}

func TestPortChecksErroringBackendsWarn(t *testing.T) {
	probers := []PortProber{
		fakeProber{name: "ss", available: true, err: errors.New("exit status 1")},
		fakeProber{name: "lsof", available: true, err: errors.New("exit status 1")},
	}
	results := portChecks(context.Background(), probers, []int{80})
	require.Len(t, results, 1)
	require.Equal(t, StatusWarn, results[0].Status)
	require.Contains(t, results[0].Detail, "could not determine")
}

func TestPortChecksInUseFails(t *testing.T) {
	probers := []PortProber{
		fakeProber{name: "ss", available: true, inUse: map[int]bool{443: true}},
	}
	results := portChecks(context.Background(), probers, []int{80, 443})
	require.Equal(t, StatusPass, results[0].Status)
	require.Equal(t, StatusFail, results[1].Status)
}

func TestCertPathsRelativeToConfigDir(t *testing.T) {
	// RunPostChecks resolves certificate paths relative to the config file.
	dir := t.TempDir()
	writeCertFiles(t, dir)
	require.True(t, fileExists(filepath.Join(dir, certFileCrt)))

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	require.False(t, fileExists(filepath.Join(sub, certFileCrt)))
}
