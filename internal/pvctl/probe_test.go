package pvctl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProbePortChainPriority(t *testing.T) {
	ctx := context.Background()

	// First available backend answers.
	state, backend := ProbePort(ctx, []PortProber{
		fakeProber{name: "ss", available: true, inUse: map[int]bool{80: true}},
		fakeProber{name: "lsof", available: true},
	}, 80)
	require.Equal(t, PortInUse, state)
	require.Equal(t, "ss", backend)

	// Unavailable backends are skipped.
	state, backend = ProbePort(ctx, []PortProber{
		fakeProber{name: "ss", available: false},
		fakeProber{name: "lsof", available: true},
	}, 80)
	require.Equal(t, PortFree, state)
	require.Equal(t, "lsof", backend)
}

func TestProbePortErroringBackendFallsThrough(t *testing.T) {
	state, backend := ProbePort(context.Background(), []PortProber{
		fakeProber{name: "ss", available: true, err: errors.New("boom")},
		fakeProber{name: "lsof", available: true, inUse: map[int]bool{443: true}},
	}, 443)
	require.Equal(t, PortInUse, state)
	require.Equal(t, "lsof", backend)
}

func TestProbePortNoBackendUnknown(t *testing.T) {
	state, backend := ProbePort(context.Background(), nil, 80)
	require.Equal(t, PortUnknown, state)
	require.Empty(t, backend)
}

type fakeResolver struct {
	name      string
	available bool
	ip        string
	err       error
}

func (f fakeResolver) Name() string    { return f.name }
func (f fakeResolver) Available() bool { return f.available }

func (f fakeResolver) LookupIPv4(context.Context, string) (string, error) {
	return f.ip, f.err
}

func TestResolveIPv4NoBackend(t *testing.T) {
	ip, backend, err := ResolveIPv4(context.Background(), []Resolver{
		fakeResolver{name: "dig", available: false},
	}, "review.example.com")
	require.NoError(t, err)
	require.Empty(t, backend)
	require.Empty(t, ip)
}

func TestResolveIPv4FirstAvailableWins(t *testing.T) {
	ip, backend, err := ResolveIPv4(context.Background(), []Resolver{
		fakeResolver{name: "dig", available: false},
		fakeResolver{name: "nslookup", available: true, ip: "192.0.2.10"},
	}, "review.example.com")
	require.NoError(t, err)
	require.Equal(t, "nslookup", backend)
	require.Equal(t, "192.0.2.10", ip)
}

func TestParseIPv4(t *testing.T) {
	require.Equal(t, "192.0.2.1", parseIPv4(" 192.0.2.1 "))
	require.Equal(t, "", parseIPv4("2001:db8::1"))
	require.Equal(t, "", parseIPv4("gitlab.example.com."))
	require.Equal(t, "", parseIPv4(""))
}
