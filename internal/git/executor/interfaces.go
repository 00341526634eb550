package executor

// CommandExecutor abstracts Git command execution so the harvester can be
// tested without a git binary or real repositories.
type CommandExecutor interface {
	// ExecuteGitWithWorkingDir runs a git command against the given
	// working directory and returns its stdout.
	ExecuteGitWithWorkingDir(workingDir string, args ...string) ([]byte, error)
}
