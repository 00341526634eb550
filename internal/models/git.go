package models

// GitActivity is the commit activity for one repository within a window.
type GitActivity struct {
	RepoPath     string      `json:"repoPath"`
	RepoName     string      `json:"repoName"`
	Branch       string      `json:"branch"`
	Commits      []GitCommit `json:"commits"`
	FilesChanged int         `json:"filesChanged"`
	Insertions   int         `json:"insertions"`
	Deletions    int         `json:"deletions"`
}

// GitCommit is a single commit with its shortstat figures.
type GitCommit struct {
	Hash         string `json:"hash"`
	Message      string `json:"message"`
	Author       string `json:"author"`
	Timestamp    string `json:"timestamp"`
	FilesChanged int    `json:"filesChanged"`
	Insertions   int    `json:"insertions"`
	Deletions    int    `json:"deletions"`
}
