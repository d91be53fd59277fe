package pvctl

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// Repository root markers. Both must be present for install/update to
	// treat the working directory as a Peerview deployment checkout.
	composeFile = "docker-compose.yml"

	// VersionsFileName is the release manifest; EnvFileName the rendered
	// configuration.
	VersionsFileName = "versions.env"
	EnvFileName      = ".env"

	repoURL = "https://github.com/example/peerview-selfhosted.git"
	repoDir = "peerview-selfhosted"

	certFileCrt = "certs/peerview.crt"
	certFileKey = "certs/peerview.key"
	customCADir = "certs/custom-ca"

	// Sentinel left in template values the operator never filled in.
	placeholderSentinel = "replace_me"
)

// Profile tags. COMPOSE_PROFILES controls which optional services the
// compose stack starts.
const (
	ProfileLetsEncrypt = "letsencrypt"
	ProfileCustomCerts = "custom-certs"
	ProfileInternalDB  = "internal-db"
)

// DB host value that marks the bundled postgres service.
const internalDBHost = "postgres"

// requiredKeys must be present, non-empty, and free of the placeholder
// sentinel for a production deployment to come up.
var requiredKeys = []string{
	"DOMAIN",
	"GITLAB_URL",
	"OIDC_CLIENT_ID",
	"OIDC_CLIENT_SECRET",
	"SECRET_KEY",
	"POSTGRES_PASSWORD",
	"REDIS_PASSWORD",
}

var imageTagKeys = []string{"FRONTEND_TAG", "BACKEND_TAG"}

type ExternalDB struct {
	Host     string
	Port     string
	User     string
	Name     string
	SSLMode  string
	Timezone string
	Password string
}

// Config carries everything the installer collects. It is assembled by the
// prompt flow (or the setup wizard), completed with generated secrets and
// manifest tags, and rendered to .env in one shot.
type Config struct {
	DeployType string // "production" or "local"

	Domain      string
	GitLabURL   string
	GitLabGroup string

	OIDCClientID     string
	OIDCClientSecret string

	CertMethod string // ProfileLetsEncrypt or ProfileCustomCerts
	ExternalDB bool
	DB         ExternalDB

	SecretKey        string
	PostgresPassword string
	RedisPassword    string

	FrontendTag string
	BackendTag  string
}

func (c Config) Local() bool {
	return c.DeployType == "local"
}

// Profile derives the COMPOSE_PROFILES value: the certificate method tag,
// plus internal-db when the bundled database is in use. An external database
// contributes no tag.
func (c Config) Profile() string {
	tags := []string{c.CertMethod}
	if !c.ExternalDB {
		tags = append(tags, ProfileInternalDB)
	}
	return strings.Join(tags, ",")
}

// HasPlaceholder reports whether a value still contains the template
// sentinel, matched case-insensitively anywhere in the string.
func HasPlaceholder(value string) bool {
	return strings.Contains(strings.ToLower(value), placeholderSentinel)
}

// ValidProfile reports whether a profile string names a recognized
// certificate method. The internal-db tag is optional.
func ValidProfile(profile string) bool {
	for _, tag := range strings.Split(profile, ",") {
		switch strings.TrimSpace(tag) {
		case ProfileLetsEncrypt, ProfileCustomCerts:
			return true
		}
	}
	return false
}

// DetectProfile guesses a profile for a configuration written before
// COMPOSE_PROFILES existed: custom-certs when both certificate files are
// already on disk, internal-db unless POSTGRES_HOST points somewhere else.
func DetectProfile(dir string, vars map[string]string) string {
	cert := ProfileLetsEncrypt
	if fileExists(filepath.Join(dir, certFileCrt)) && fileExists(filepath.Join(dir, certFileKey)) {
		cert = ProfileCustomCerts
	}

	tags := []string{cert}
	host := strings.TrimSpace(vars["POSTGRES_HOST"])
	if host == "" || host == internalDBHost {
		tags = append(tags, ProfileInternalDB)
	}
	return strings.Join(tags, ",")
}

// profileChoices is the fixed menu offered when the operator overrides the
// detected profile during migration.
var profileChoices = []string{
	ProfileLetsEncrypt + "," + ProfileInternalDB,
	ProfileLetsEncrypt,
	ProfileCustomCerts + "," + ProfileInternalDB,
	ProfileCustomCerts,
}

// applicationsURL is where the operator registers the OIDC application on
// the upstream GitLab: the group settings page when a group scope was given,
// the profile page otherwise.
func applicationsURL(gitlabURL, group string) string {
	if group != "" {
		return gitlabURL + "/groups/" + group + "/-/settings/applications"
	}
	return gitlabURL + "/-/profile/applications"
}

func redirectURL(domain string) string {
	return "https://" + domain + "/oidc/callback"
}

const (
	oidcAppName = "Peerview"
	oidcScopes  = "openid profile email"
)

// OIDCRegistration carries the values the operator copies into the GitLab
// application form when registering the platform.
type OIDCRegistration struct {
	SettingsURL string
	AppName     string
	RedirectURI string
	Scopes      string
}

func (c Config) OIDCRegistration() OIDCRegistration {
	redirect := redirectURL(c.Domain)
	if c.Local() {
		redirect = "http://localhost:8080/oidc/callback"
	}
	return OIDCRegistration{
		SettingsURL: applicationsURL(c.GitLabURL, c.GitLabGroup),
		AppName:     oidcAppName,
		RedirectURI: redirect,
		Scopes:      oidcScopes,
	}
}

// CertFilePaths returns the certificate and key paths, relative to the
// checkout root, that the custom-certs profile expects.
func CertFilePaths() []string {
	return []string{certFileCrt, certFileKey}
}

// CustomCADir is where operators drop extra CA bundles (*.crt).
func CustomCADir() string {
	return customCADir
}

// CountCustomCACerts counts *.crt bundles the operator dropped into the
// custom CA directory. Zero with no error means the directory is absent or
// empty; the count is advisory either way.
func CountCustomCACerts(dir string) int {
	matches, err := filepath.Glob(filepath.Join(dir, customCADir, "*.crt"))
	if err != nil {
		return 0
	}
	return len(matches)
}

// MissingRequiredKeys returns the required keys that are absent, empty, or
// still carry the placeholder sentinel, sorted for stable output.
func MissingRequiredKeys(vars map[string]string) []string {
	var missing []string
	for _, key := range requiredKeys {
		v, ok := vars[key]
		if !ok || strings.TrimSpace(v) == "" || HasPlaceholder(v) {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func hasRepoMarkers(dir string) bool {
	return fileExists(filepath.Join(dir, composeFile)) && fileExists(filepath.Join(dir, VersionsFileName))
}

func requireRepoMarkers(dir string) error {
	if !hasRepoMarkers(dir) {
		return fmt.Errorf("%s and %s not found: run from the deployment repository root", composeFile, VersionsFileName)
	}
	return nil
}
