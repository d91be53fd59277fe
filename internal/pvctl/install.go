package pvctl

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// RunInstall is the line-oriented installer: clone if needed, pre-checks,
// prompt sequence, secrets, render, post-checks, optional launch. Safe to
// re-run; the configuration file is rewritten in full at the end of the
// prompt sequence.
func RunInstall(ctx context.Context) error {
	if err := EnsureRepo(ctx); err != nil {
		return err
	}

	pre := RunPreChecks(ctx)
	PrintResults(pre)
	if n := FailCount(pre); n > 0 {
		return fmt.Errorf("%d preflight check(s) failed", n)
	}

	p := NewPrompter()
	cfg, err := collectConfig(p)
	if err != nil {
		return err
	}

	cfg, err = GenerateSecrets(cfg)
	if err != nil {
		return err
	}

	versions, err := ReadVersions(VersionsFileName)
	if err != nil {
		return err
	}
	cfg.FrontendTag = versions.Frontend
	cfg.BackendTag = versions.Backend

	if err := BuildEnv(cfg).Save(EnvFileName); err != nil {
		return fmt.Errorf("write %s: %w", EnvFileName, err)
	}
	fmt.Printf("wrote %s\n", EnvFileName)

	if err := WriteCAOverride(ctx, "."); err != nil {
		fmt.Printf("[WARN] custom CA override: %v\n", err)
	}

	// Post-check failures are reported but never abort a finished install.
	post := RunPostChecks(ctx, EnvFileName)
	PrintResults(post)
	if n := FailCount(post); n > 0 {
		fmt.Printf("%d post-install check(s) failed; fix %s and re-run `pvctl preflight --post`\n", n, EnvFileName)
	}

	launch, err := p.AskYesNo("launch the stack now?", true)
	if err != nil {
		return err
	}
	if !launch {
		fmt.Printf("launch later with: %s\n", LaunchCommand)
		return nil
	}
	return composeUp(ctx)
}

func collectConfig(p *Prompter) (Config, error) {
	var cfg Config

	types := []string{"production (TLS, public domain)", "local (no TLS, evaluation only)"}
	idx, err := p.AskChoice("deployment type", types, 0)
	if err != nil {
		return cfg, err
	}
	cfg.DeployType = "production"
	if idx == 1 {
		cfg.DeployType = "local"
	}

	if !cfg.Local() {
		if cfg.Domain, err = p.AskRequired("domain name (e.g. review.example.com)"); err != nil {
			return cfg, err
		}
	}

	raw, err := p.AskRequired("GitLab URL (e.g. https://gitlab.example.com)")
	if err != nil {
		return cfg, err
	}
	cfg.GitLabURL = strings.TrimRight(raw, "/")

	if cfg.GitLabGroup, err = p.Ask("GitLab group to limit access to (empty for all users)", ""); err != nil {
		return cfg, err
	}

	if err := oidcWalkthrough(p, &cfg); err != nil {
		return cfg, err
	}

	if !cfg.Local() {
		if err := collectTLS(p, &cfg); err != nil {
			return cfg, err
		}
		if err := collectDatabase(p, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func oidcWalkthrough(p *Prompter, cfg *Config) error {
	reg := cfg.OIDCRegistration()

	fmt.Println()
	fmt.Println("register an OIDC application on your GitLab:")
	fmt.Printf("  open:         %s\n", reg.SettingsURL)
	fmt.Printf("  Name:         %s\n", reg.AppName)
	fmt.Printf("  Redirect URI: %s\n", reg.RedirectURI)
	fmt.Println("  Confidential: yes")
	fmt.Printf("  Scopes:       %s\n", reg.Scopes)
	fmt.Println()

	var err error
	if cfg.OIDCClientID, err = p.AskRequired("application ID"); err != nil {
		return err
	}
	if cfg.OIDCClientSecret, err = p.AskSecret("application secret"); err != nil {
		return err
	}
	return nil
}

func collectTLS(p *Prompter, cfg *Config) error {
	methods := []string{"Let's Encrypt (automatic certificates)", "custom certificates (bring your own)"}
	idx, err := p.AskChoice("TLS method", methods, 0)
	if err != nil {
		return err
	}
	cfg.CertMethod = ProfileLetsEncrypt
	if idx == 1 {
		cfg.CertMethod = ProfileCustomCerts
		for _, rel := range []string{certFileCrt, certFileKey} {
			state := "missing, place it before launch"
			if fileExists(rel) {
				state = "found"
			}
			fmt.Printf("  %s: %s\n", rel, state)
		}
		if n := CountCustomCACerts("."); n > 0 {
			fmt.Printf("  %d custom CA bundle(s) found in %s\n", n, customCADir)
		}
	}
	return nil
}

func collectDatabase(p *Prompter, cfg *Config) error {
	locations := []string{"internal (bundled postgres container)", "external (existing postgres server)"}
	idx, err := p.AskChoice("database location", locations, 0)
	if err != nil {
		return err
	}
	if idx == 0 {
		return nil
	}

	cfg.ExternalDB = true
	if cfg.DB.Host, err = p.AskRequired("database host"); err != nil {
		return err
	}
	if cfg.DB.Port, err = p.Ask("database port", "5432"); err != nil {
		return err
	}
	if cfg.DB.User, err = p.Ask("database user", "peerview"); err != nil {
		return err
	}
	if cfg.DB.Name, err = p.Ask("database name", "peerview"); err != nil {
		return err
	}
	if cfg.DB.SSLMode, err = p.Ask("sslmode", "disable"); err != nil {
		return err
	}
	if cfg.DB.Timezone, err = p.Ask("timezone", HostTimezone()); err != nil {
		return err
	}
	if cfg.DB.Password, err = p.AskSecret("database password"); err != nil {
		return err
	}
	return nil
}

// HostTimezone guesses the host's IANA timezone, falling back to Etc/UTC.
func HostTimezone() string {
	if tz := strings.TrimSpace(os.Getenv("TZ")); tz != "" {
		return tz
	}
	if b, err := os.ReadFile("/etc/timezone"); err == nil {
		if tz := strings.TrimSpace(string(b)); tz != "" {
			return tz
		}
	}
	return "Etc/UTC"
}
