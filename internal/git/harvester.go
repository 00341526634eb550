// Package git collects commit activity from the repositories behind Claude
// project directories.
package git

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robinbaebae/sprt/internal/claude/paths"
	"github.com/robinbaebae/sprt/internal/git/executor"
	"github.com/robinbaebae/sprt/internal/logger"
	"github.com/robinbaebae/sprt/internal/models"
)

// Harvester discovers git repositories from the Claude projects directory
// and extracts their commit activity for a time window. Repository failures
// are soft: a repo whose git invocation fails is excluded, never aborting
// the batch.
type Harvester struct {
	projectsDir string
	exec        executor.CommandExecutor
}

// NewHarvester creates a harvester over the given projects directory.
func NewHarvester(projectsDir string, exec executor.CommandExecutor) *Harvester {
	return &Harvester{projectsDir: projectsDir, exec: exec}
}

// DiscoverRepos resolves every project directory entry to a filesystem path
// and keeps the ones that are git repositories.
func (h *Harvester) DiscoverRepos() []string {
	entries, err := os.ReadDir(h.projectsDir)
	if err != nil {
		return nil
	}

	var repos []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		decoded := paths.DecodeProjectPath(entry.Name())
		if _, err := os.Stat(filepath.Join(decoded, ".git")); err == nil {
			repos = append(repos, decoded)
		}
	}
	return repos
}

// CollectActivity returns per-repository commit activity for a calendar
// date, expanded to the local [00:00:00, 23:59:59] window.
func (h *Harvester) CollectActivity(date string) []models.GitActivity {
	return h.CollectActivityRange(date+"T00:00:00", date+"T23:59:59")
}

// CollectActivityRange returns per-repository commit activity for an
// explicit [since, until] range. Repositories without matching commits are
// dropped.
func (h *Harvester) CollectActivityRange(since, until string) []models.GitActivity {
	var activities []models.GitActivity

	for _, repoPath := range h.DiscoverRepos() {
		activity, ok := h.collectRepoActivity(repoPath, since, until)
		if ok && len(activity.Commits) > 0 {
			activities = append(activities, activity)
		}
	}
	return activities
}

func (h *Harvester) collectRepoActivity(repoPath, since, until string) (models.GitActivity, bool) {
	output, err := h.exec.ExecuteGitWithWorkingDir(repoPath,
		"log",
		"--since="+since,
		"--until="+until,
		"--format=%H|%s|%an|%aI",
		"--shortstat",
	)
	if err != nil {
		logger.Debugf("Skipping repo %s: %v", repoPath, err)
		return models.GitActivity{}, false
	}

	activity := models.GitActivity{
		RepoPath: repoPath,
		RepoName: filepath.Base(repoPath),
		Branch:   h.currentBranch(repoPath),
	}

	lines := strings.Split(string(output), "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 || len(parts[0]) != 40 {
			continue
		}

		commit := models.GitCommit{
			Hash:      parts[0],
			Message:   parts[1],
			Author:    parts[2],
			Timestamp: parts[3],
		}

		// The next line, when present, is this commit's shortstat
		if i+1 < len(lines) {
			statLine := strings.TrimSpace(lines[i+1])
			if strings.Contains(statLine, "changed") {
				commit.FilesChanged, commit.Insertions, commit.Deletions = ParseShortstat(statLine)
				i++
			}
		}

		activity.FilesChanged += commit.FilesChanged
		activity.Insertions += commit.Insertions
		activity.Deletions += commit.Deletions
		activity.Commits = append(activity.Commits, commit)
	}

	return activity, true
}

// currentBranch resolves the checked-out branch, "unknown" on failure.
func (h *Harvester) currentBranch(repoPath string) string {
	output, err := h.exec.ExecuteGitWithWorkingDir(repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "unknown"
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "unknown"
	}
	return branch
}

// ParseShortstat parses a git shortstat line like
// "3 files changed, 120 insertions(+), 45 deletions(-)" into its three
// figures. Clauses may be absent ("1 file changed, 2 insertions(+)");
// missing figures default to zero.
func ParseShortstat(line string) (files, insertions, deletions int) {
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		num, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}

		switch {
		case strings.Contains(part, "file"):
			files = num
		case strings.Contains(part, "insertion"):
			insertions = num
		case strings.Contains(part, "deletion"):
			deletions = num
		}
	}
	return files, insertions, deletions
}
