package pvctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/client"
	goversion "github.com/hashicorp/go-version"
)

// minComposeVersion is the oldest compose plugin known to handle
// COMPOSE_PROFILES the way the stack definitions expect.
const minComposeVersion = "2.20.2"

// pingDockerDaemon checks that the engine is installed and the daemon
// answers over the API socket.
func pingDockerDaemon(ctx context.Context) error {
	if !commandExists("docker") {
		return fmt.Errorf("docker binary not found")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("docker client: %w", err)
	}
	defer cli.Close()

	if _, err := cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker daemon not responding: %w", err)
	}
	return nil
}

func composeVersion(ctx context.Context) (string, error) {
	out, err := runCmdCapture(ctx, "docker", "compose", "version", "--short")
	if err != nil {
		return "", fmt.Errorf("docker compose not available: %s", strings.TrimSpace(out))
	}
	return strings.TrimSpace(out), nil
}

// checkComposeVersion compares component-wise (major, minor, patch), not
// lexicographically: 2.9.0 < 2.20.2 even though "2.9" sorts after "2.20".
func checkComposeVersion(raw string) error {
	have, err := goversion.NewVersion(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	if err != nil {
		return fmt.Errorf("unparseable compose version %q: %w", raw, err)
	}
	min := goversion.Must(goversion.NewVersion(minComposeVersion))
	if have.LessThan(min) {
		return fmt.Errorf("compose %s is older than required %s", have, min)
	}
	return nil
}

func composeArgs(extra ...string) []string {
	args := []string{"compose"}
	return append(args, extra...)
}

// composeUp reconciles the stack against the current compose file and .env.
// Used both for first launch and for restarts after an update.
func composeUp(ctx context.Context) error {
	return runCmdStream(ctx, "docker", composeArgs("up", "-d", "--remove-orphans")...)
}

// LaunchStack is composeUp with output captured, for callers that cannot
// stream to the terminal (the setup wizard).
func LaunchStack(ctx context.Context) error {
	out, err := runCmdCapture(ctx, "docker", composeArgs("up", "-d", "--remove-orphans")...)
	if err != nil {
		return fmt.Errorf("launch stack: %s", strings.TrimSpace(out))
	}
	return nil
}

func composePS(ctx context.Context) (string, error) {
	return runCmdCapture(ctx, "docker", composeArgs("ps")...)
}

// LaunchCommand is printed when the operator declines the immediate launch.
const LaunchCommand = "docker compose up -d --remove-orphans"
