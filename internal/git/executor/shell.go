package executor

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// ShellExecutor implements CommandExecutor using the git binary.
type ShellExecutor struct{}

// NewShellExecutor creates a new shell-based Git command executor
func NewShellExecutor() CommandExecutor {
	return &ShellExecutor{}
}

// ExecuteGitWithWorkingDir runs a git command with -C flag for working directory
func (e *ShellExecutor) ExecuteGitWithWorkingDir(workingDir string, args ...string) ([]byte, error) {
	if workingDir != "" {
		args = append([]string{"-C", workingDir}, args...)
	}

	cmd := exec.Command("git", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s failed: %v\nstderr: %s", strings.Join(args, " "), err, stderr.String())
	}

	return stdout.Bytes(), nil
}
