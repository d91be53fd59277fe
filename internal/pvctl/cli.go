package pvctl

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

// Run dispatches the CLI. The `setup` wizard lives in internal/tui and is
// wired up in package main to keep this package free of UI dependencies.
func Run(args []string) error {
	if len(args) < 1 {
		Usage()
		return fmt.Errorf("a command is required")
	}

	cmd := args[0]
	cmdArgs := args[1:]
	ctx := context.Background()

	switch cmd {
	case "preflight":
		return cmdPreflight(ctx, cmdArgs)
	case "install":
		return RunInstall(ctx)
	case "update":
		return RunUpdate(ctx)
	case "status":
		return cmdStatus(ctx)
	case "help", "--help", "-h":
		Usage()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func Usage() {
	fmt.Println(`pvctl - manage a self-hosted Peerview deployment

Usage:
  pvctl preflight [--pre|--post] [--env-file .env]   run environment checks
  pvctl install                                      first-time setup (line prompts)
  pvctl setup                                        first-time setup (interactive wizard)
  pvctl update                                       pull new image versions and restart
  pvctl status                                       show configuration and stack state
  pvctl help

Exit code is 0 when every check passes and 1 on any fatal condition.
Warnings never change the exit code.`)
}

func cmdPreflight(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("preflight", flag.ContinueOnError)
	preOnly := fs.Bool("pre", false, "run pre-checks only (no configuration file needed)")
	postOnly := fs.Bool("post", false, "run post-checks only (validates the configuration file)")
	envPath := fs.String("env-file", EnvFileName, "configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *preOnly && *postOnly {
		return fmt.Errorf("--pre and --post are mutually exclusive")
	}

	var results []CheckResult
	if !*postOnly {
		results = append(results, RunPreChecks(ctx)...)
	}
	if !*preOnly {
		results = append(results, RunPostChecks(ctx, *envPath)...)
	}
	PrintResults(results)

	if n := FailCount(results); n > 0 {
		return fmt.Errorf("%d check(s) failed", n)
	}
	return nil
}

func cmdStatus(ctx context.Context) error {
	if err := requireRepoMarkers("."); err != nil {
		return err
	}

	if vars, err := ReadEnvValues(EnvFileName); err == nil {
		fmt.Printf("domain:   %s\n", vars["DOMAIN"])
		fmt.Printf("gitlab:   %s\n", vars["GITLAB_URL"])
		fmt.Printf("profile:  %s\n", vars["COMPOSE_PROFILES"])
		fmt.Printf("frontend: %s\n", vars["FRONTEND_TAG"])
		fmt.Printf("backend:  %s\n", vars["BACKEND_TAG"])
	} else {
		fmt.Printf("%s not readable: %v\n", EnvFileName, err)
	}

	out, err := composePS(ctx)
	if err != nil {
		fmt.Println("docker compose status unavailable:")
		fmt.Println(strings.TrimSpace(out))
		return nil
	}
	fmt.Println(out)
	return nil
}
