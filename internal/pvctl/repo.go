package pvctl

import (
	"context"
	"errors"
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
)

// EnsureRepo makes sure we are inside a deployment checkout. When the
// markers are missing it clones the canonical repository into a fixed-name
// subdirectory and changes into it. git and docker must exist before we
// touch anything.
func EnsureRepo(ctx context.Context) error {
	if hasRepoMarkers(".") {
		return nil
	}

	if !commandExists("git") {
		return fmt.Errorf("git is required to fetch the deployment repository")
	}
	if !commandExists("docker") {
		return fmt.Errorf("docker is required before installing")
	}

	if !dirExists(repoDir) {
		fmt.Printf("cloning %s into %s/\n", repoURL, repoDir)
		if _, err := git.PlainCloneContext(ctx, repoDir, false, &git.CloneOptions{
			URL:      repoURL,
			Depth:    1,
			Progress: os.Stdout,
		}); err != nil {
			return fmt.Errorf("clone deployment repository: %w", err)
		}
	}

	if err := os.Chdir(repoDir); err != nil {
		return err
	}
	return requireRepoMarkers(".")
}

// PullRepo fast-forwards the checkout. Already up to date is success;
// anything else aborts the update.
func PullRepo(ctx context.Context) error {
	repo, err := git.PlainOpen(".")
	if err != nil {
		return fmt.Errorf("open deployment repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		fmt.Println("already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("pull deployment repository: %w", err)
	}
	fmt.Println("pulled latest revision")
	return nil
}
