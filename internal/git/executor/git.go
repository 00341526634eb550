package executor

import (
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// GitExecutor implements CommandExecutor using go-git where the operation is
// cheap to answer in-process (branch and HEAD queries), and falls back to
// shell git for everything else - notably formatted log output, which go-git
// cannot render.
type GitExecutor struct {
	fallbackExecutor CommandExecutor
	repositoryCache  map[string]*gogit.Repository
}

// NewGitExecutor creates the main production executor
func NewGitExecutor() CommandExecutor {
	return &GitExecutor{
		fallbackExecutor: NewShellExecutor(),
		repositoryCache:  make(map[string]*gogit.Repository),
	}
}

// ExecuteGitWithWorkingDir runs a git command - go-git where possible, shell otherwise
func (e *GitExecutor) ExecuteGitWithWorkingDir(workingDir string, args ...string) ([]byte, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no git command provided")
	}

	switch args[0] {
	case "rev-parse":
		if len(args) == 3 && args[1] == "--abbrev-ref" && args[2] == "HEAD" {
			return e.currentBranch(workingDir)
		}
	case "branch":
		if len(args) == 2 && args[1] == "--show-current" {
			return e.currentBranch(workingDir)
		}
	}

	return e.fallbackExecutor.ExecuteGitWithWorkingDir(workingDir, args...)
}

// getRepository gets or opens a repository, caching the result
func (e *GitExecutor) getRepository(repoPath string) (*gogit.Repository, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if repo, exists := e.repositoryCache[absPath]; exists {
		return repo, nil
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", absPath, err)
	}

	e.repositoryCache[absPath] = repo
	return repo, nil
}

func (e *GitExecutor) currentBranch(workingDir string) ([]byte, error) {
	repo, err := e.getRepository(workingDir)
	if err != nil {
		return e.fallbackExecutor.ExecuteGitWithWorkingDir(workingDir, "rev-parse", "--abbrev-ref", "HEAD")
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return nil, fmt.Errorf("HEAD is not on a branch")
	}

	return []byte(head.Name().Short() + "\n"), nil
}
