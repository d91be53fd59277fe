package pvctl

import (
	"context"
	"fmt"
)

// RunUpdate pulls the latest repository revision, rewrites the image tags in
// the existing configuration, migrates old configurations that predate
// deployment profiles, and reconciles the stack.
func RunUpdate(ctx context.Context) error {
	if err := requireRepoMarkers("."); err != nil {
		return err
	}
	if !fileExists(EnvFileName) {
		return fmt.Errorf("%s not found: run `pvctl install` first", EnvFileName)
	}

	if err := PullRepo(ctx); err != nil {
		return err
	}

	versions, err := ReadVersions(VersionsFileName)
	if err != nil {
		return err
	}

	env, err := LoadEnvFile(EnvFileName)
	if err != nil {
		return fmt.Errorf("load %s: %w", EnvFileName, err)
	}

	env.Set("FRONTEND_TAG", versions.Frontend)
	env.Set("BACKEND_TAG", versions.Backend)
	fmt.Printf("frontend %s, backend %s\n", versions.Frontend, versions.Backend)

	if !env.Has("COMPOSE_PROFILES") {
		profile, err := migrateProfile(NewPrompter(), ".", env.Values())
		if err != nil {
			return err
		}
		env.Set("COMPOSE_PROFILES", profile)
		fmt.Printf("added COMPOSE_PROFILES=%s\n", profile)
	}

	if err := env.Save(EnvFileName); err != nil {
		return fmt.Errorf("write %s: %w", EnvFileName, err)
	}

	return composeUp(ctx)
}

// migrateProfile handles configurations written before COMPOSE_PROFILES
// existed: propose an auto-detected value, let the operator accept it
// (default) or pick from the fixed menu.
func migrateProfile(p *Prompter, dir string, vars map[string]string) (string, error) {
	guess := DetectProfile(dir, vars)
	fmt.Printf("this configuration predates deployment profiles; detected: %s\n", guess)

	accept, err := p.AskYesNo("use the detected profile?", true)
	if err != nil {
		return "", err
	}
	if accept {
		return guess, nil
	}

	idx, err := p.AskChoice("deployment profile", profileChoices, 0)
	if err != nil {
		return "", err
	}
	return profileChoices[idx], nil
}
