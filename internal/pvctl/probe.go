package pvctl

import (
	"context"
	"fmt"
	"net"
	"strings"
)

// PortProber answers whether a local TCP port has a listener. Backends wrap
// whichever listing tool the host happens to have; when none is available
// the answer is an explicit "unknown", never an error that fails preflight.
type PortProber interface {
	Name() string
	Available() bool
	InUse(ctx context.Context, port int) (bool, error)
}

type ssProber struct{}

func (ssProber) Name() string    { return "ss" }
func (ssProber) Available() bool { return commandExists("ss") }

func (ssProber) InUse(ctx context.Context, port int) (bool, error) {
	out, err := runCmdCapture(ctx, "ss", "-ltn")
	if err != nil {
		return false, fmt.Errorf("ss: %w", err)
	}
	needle := fmt.Sprintf(":%d ", port)
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, needle) {
			return true, nil
		}
	}
	return false, nil
}

type lsofProber struct{}

func (lsofProber) Name() string    { return "lsof" }
func (lsofProber) Available() bool { return commandExists("lsof") }

func (lsofProber) InUse(ctx context.Context, port int) (bool, error) {
	// lsof exits non-zero when nothing matches; only non-empty output
	// means a listener exists.
	out, _ := runCmdCapture(ctx, "lsof", "-nP", fmt.Sprintf("-iTCP:%d", port), "-sTCP:LISTEN")
	return strings.TrimSpace(out) != "", nil
}

var defaultProbers = []PortProber{ssProber{}, lsofProber{}}

// PortState is the collapsed outcome of a probe across backends.
type PortState int

const (
	PortFree PortState = iota
	PortInUse
	PortUnknown
)

// ProbePort tries probers in priority order and returns the first usable
// answer. PortUnknown means no backend was available or all of them errored.
func ProbePort(ctx context.Context, probers []PortProber, port int) (PortState, string) {
	for _, p := range probers {
		if !p.Available() {
			continue
		}
		inUse, err := p.InUse(ctx, port)
		if err != nil {
			continue
		}
		if inUse {
			return PortInUse, p.Name()
		}
		return PortFree, p.Name()
	}
	return PortUnknown, ""
}

// Resolver resolves a hostname to an IPv4 literal. Same backend-chain shape
// as PortProber: dig first, nslookup second, unknown when neither exists.
type Resolver interface {
	Name() string
	Available() bool
	LookupIPv4(ctx context.Context, host string) (string, error)
}

type digResolver struct{}

func (digResolver) Name() string    { return "dig" }
func (digResolver) Available() bool { return commandExists("dig") }

func (digResolver) LookupIPv4(ctx context.Context, host string) (string, error) {
	out, err := runCmdCapture(ctx, "dig", "+short", "A", host)
	if err != nil {
		return "", fmt.Errorf("dig: %w", err)
	}
	for _, line := range strings.Split(out, "\n") {
		if ip := parseIPv4(line); ip != "" {
			return ip, nil
		}
	}
	return "", fmt.Errorf("no A record for %s", host)
}

type nslookupResolver struct{}

func (nslookupResolver) Name() string    { return "nslookup" }
func (nslookupResolver) Available() bool { return commandExists("nslookup") }

func (nslookupResolver) LookupIPv4(ctx context.Context, host string) (string, error) {
	out, err := runCmdCapture(ctx, "nslookup", host)
	if err != nil {
		return "", fmt.Errorf("nslookup: %w", err)
	}
	// The first Address line names the resolver itself; answers follow the
	// Name: line.
	answers := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Name:") {
			answers = true
			continue
		}
		if !answers || !strings.HasPrefix(line, "Address") {
			continue
		}
		if i := strings.Index(line, ":"); i >= 0 {
			if ip := parseIPv4(line[i+1:]); ip != "" {
				return ip, nil
			}
		}
	}
	return "", fmt.Errorf("no A record for %s", host)
}

var defaultResolvers = []Resolver{digResolver{}, nslookupResolver{}}

// ResolveIPv4 tries resolvers in priority order; the first available
// backend's answer is final. An empty backend means none was available.
func ResolveIPv4(ctx context.Context, resolvers []Resolver, host string) (ip, backend string, err error) {
	for _, r := range resolvers {
		if !r.Available() {
			continue
		}
		ip, err = r.LookupIPv4(ctx, host)
		return ip, r.Name(), err
	}
	return "", "", nil
}

func parseIPv4(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.To4() == nil {
		return ""
	}
	return ip.To4().String()
}
