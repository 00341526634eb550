package services

import (
	"sort"

	"github.com/robinbaebae/sprt/internal/claude/paths"
	"github.com/robinbaebae/sprt/internal/models"
)

// BuildStats rolls git activity and session summaries up into the global
// devlog statistics. Projects count follows the git side only: distinct
// repository names.
func BuildStats(gitData []models.GitActivity, sessions []models.SessionSummary) models.DevLogStats {
	var stats models.DevLogStats

	repoNames := make(map[string]struct{})
	for _, g := range gitData {
		stats.TotalCommits += len(g.Commits)
		stats.TotalFilesChanged += g.FilesChanged
		stats.TotalInsertions += g.Insertions
		stats.TotalDeletions += g.Deletions
		repoNames[g.RepoName] = struct{}{}
	}

	var durationMinutes int64
	for i := range sessions {
		s := &sessions[i]
		stats.TotalMessages += s.MessageCount
		stats.TotalTokens += s.TotalTokens()
		durationMinutes += s.DurationMinutes
	}

	stats.ActiveHours = float64(durationMinutes) / 60.0
	stats.ProjectsCount = len(repoNames)
	return stats
}

// BuildProjectWork merges both activity sources into one entry per project.
// Git entries are keyed by repository name; sessions by the last segment of
// their resolved project path, falling back to the raw encoded name. The two
// sources land in the same entry only when those keys are byte-equal.
// KeyChanges stays empty here; the summarization response fills it in later.
func BuildProjectWork(gitData []models.GitActivity, sessions []models.SessionSummary) []models.ProjectWork {
	projects := make(map[string]*models.ProjectWork)

	entry := func(name, path string) *models.ProjectWork {
		if p, ok := projects[name]; ok {
			return p
		}
		p := &models.ProjectWork{Name: name, Path: path, KeyChanges: []string{}}
		projects[name] = p
		return p
	}

	for _, g := range gitData {
		p := entry(g.RepoName, g.RepoPath)
		p.Commits += len(g.Commits)
	}

	for i := range sessions {
		s := &sessions[i]
		p := entry(projectNameForSession(s), s.ProjectPath)
		p.Messages += s.MessageCount
		p.Tokens += s.TotalTokens()
		p.DurationMinutes += s.DurationMinutes
	}

	result := make([]models.ProjectWork, 0, len(projects))
	for _, p := range projects {
		result = append(result, *p)
	}
	sortProjectWork(result)
	return result
}

// projectNameForSession resolves a session's display name: the last segment
// of the decoded project path, the raw encoded name when decoding failed.
func projectNameForSession(s *models.SessionSummary) string {
	return paths.RepoName(s.ProjectPath, s.Project)
}

func sortProjectWork(work []models.ProjectWork) {
	sort.Slice(work, func(i, j int) bool {
		return work[i].Name < work[j].Name
	})
}
