package pvctl

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// CheckResult is one preflight outcome. Warnings never affect the aggregate
// exit code; only failures do.
type CheckResult struct {
	Name   string
	Status CheckStatus
	Detail string
}

func pass(name string) CheckResult { return CheckResult{Name: name, Status: StatusPass} }

func warn(name, format string, args ...any) CheckResult {
	return CheckResult{Name: name, Status: StatusWarn, Detail: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) CheckResult {
	return CheckResult{Name: name, Status: StatusFail, Detail: fmt.Sprintf(format, args...)}
}

func FailCount(results []CheckResult) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusFail {
			n++
		}
	}
	return n
}

func PrintResults(results []CheckResult) {
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			fmt.Printf("[ OK ] %s\n", r.Name)
		case StatusWarn:
			fmt.Printf("[WARN] %s: %s\n", r.Name, r.Detail)
		case StatusFail:
			fmt.Printf("[FAIL] %s: %s\n", r.Name, r.Detail)
		}
	}
}

var requiredPorts = []int{80, 443}

// RunPreChecks inspects host prerequisites. It needs no configuration file.
func RunPreChecks(ctx context.Context) []CheckResult {
	var results []CheckResult

	if err := pingDockerDaemon(ctx); err != nil {
		results = append(results, fail("docker engine", "%v", err))
	} else {
		results = append(results, pass("docker engine"))
	}

	name := fmt.Sprintf("docker compose >= %s", minComposeVersion)
	if raw, err := composeVersion(ctx); err != nil {
		results = append(results, fail(name, "%v", err))
	} else if err := checkComposeVersion(raw); err != nil {
		results = append(results, fail(name, "%v", err))
	} else {
		results = append(results, pass(name))
	}

	if commandExists("git") {
		results = append(results, pass("git binary"))
	} else {
		results = append(results, fail("git binary", "not found in PATH"))
	}

	results = append(results, portChecks(ctx, defaultProbers, requiredPorts)...)
	return results
}

func portChecks(ctx context.Context, probers []PortProber, ports []int) []CheckResult {
	var results []CheckResult
	for _, port := range ports {
		name := fmt.Sprintf("port %d free", port)
		state, backend := ProbePort(ctx, probers, port)
		switch state {
		case PortFree:
			results = append(results, pass(name))
		case PortInUse:
			results = append(results, fail(name, "already in use (per %s)", backend))
		default:
			results = append(results, warn(name, "could not determine, ss and lsof unavailable or failed"))
		}
	}
	return results
}

// RunPostChecks validates a written configuration file. A missing file is
// fatal and short-circuits everything that would need its contents.
func RunPostChecks(ctx context.Context, path string) []CheckResult {
	if !fileExists(path) {
		return []CheckResult{fail("config file", "%s not found", path)}
	}
	vars, err := ReadEnvValues(path)
	if err != nil {
		return []CheckResult{fail("config file", "parse %s: %v", path, err)}
	}

	results := []CheckResult{pass("config file")}

	// A local install renders neither DOMAIN nor COMPOSE_PROFILES; both
	// absent together selects the relaxed local battery.
	local := strings.TrimSpace(vars["DOMAIN"]) == "" && strings.TrimSpace(vars["COMPOSE_PROFILES"]) == ""

	missing := MissingRequiredKeys(vars)
	if local {
		missing = withoutKey(missing, "DOMAIN")
	}
	if len(missing) > 0 {
		results = append(results, fail("required variables", "missing or placeholder: %s", strings.Join(missing, ", ")))
	} else {
		results = append(results, pass("required variables"))
	}

	for _, key := range imageTagKeys {
		if strings.TrimSpace(vars[key]) == "" {
			results = append(results, fail("image tags", "%s not set", key))
		} else {
			results = append(results, pass(fmt.Sprintf("image tag %s", key)))
		}
	}

	if local {
		results = append(results, pass("local deployment, no domain or TLS profile expected"))
		results = append(results, reachabilityCheck(ctx, vars["GITLAB_URL"]))
		return results
	}

	profile := strings.TrimSpace(vars["COMPOSE_PROFILES"])
	if !ValidProfile(profile) {
		results = append(results, fail("deployment profile",
			"COMPOSE_PROFILES %q has no certificate method (%s or %s)",
			profile, ProfileLetsEncrypt, ProfileCustomCerts))
		return results
	}
	results = append(results, pass("deployment profile"))

	results = append(results, dnsCheck(ctx, vars["DOMAIN"]))
	results = append(results, reachabilityCheck(ctx, vars["GITLAB_URL"]))

	if strings.Contains(profile, ProfileCustomCerts) {
		results = append(results, certFileChecks(filepath.Dir(path))...)
	}
	return results
}

func withoutKey(keys []string, drop string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k != drop {
			out = append(out, k)
		}
	}
	return out
}

func dnsCheck(ctx context.Context, domain string) CheckResult {
	name := fmt.Sprintf("DNS for %s", domain)
	if domain == "" {
		return warn(name, "domain not configured")
	}
	ip, backend, err := ResolveIPv4(ctx, defaultResolvers, domain)
	if backend == "" {
		return warn(name, "cannot verify, neither dig nor nslookup available")
	}
	if err != nil {
		return warn(name, "%v", err)
	}
	return pass(fmt.Sprintf("%s resolves to %s (%s)", domain, ip, backend))
}

const reachabilityTimeout = 5 * time.Second

func reachabilityCheck(ctx context.Context, rawURL string) CheckResult {
	name := fmt.Sprintf("GitLab reachable at %s", rawURL)
	if rawURL == "" {
		return warn("GitLab reachable", "GITLAB_URL not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, reachabilityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return warn(name, "%v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return warn(name, "%v", err)
	}
	resp.Body.Close()
	return pass(name)
}

func certFileChecks(dir string) []CheckResult {
	var results []CheckResult
	for _, rel := range []string{certFileCrt, certFileKey} {
		name := fmt.Sprintf("certificate file %s", rel)
		if fileExists(filepath.Join(dir, rel)) {
			results = append(results, pass(name))
		} else {
			results = append(results, fail(name, "required by the %s profile but missing", ProfileCustomCerts))
		}
	}
	return results
}
