// Package paths maps between Claude project directory names and the
// filesystem paths they encode.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// EncodeProjectPath encodes an absolute path the way Claude names project
// directories: every "/" becomes "-", so /Users/alice/app -> -Users-alice-app.
// The encoding is lossy for path components that themselves contain dashes.
func EncodeProjectPath(path string) string {
	return strings.ReplaceAll(path, "/", "-")
}

// DecodeProjectPath reconstructs the absolute path an encoded directory name
// stands for, using the local filesystem as an oracle to disambiguate
// components that contain dashes. At each position it tries the longest
// contiguous run of remaining segments rejoined with "-", keeps the first
// candidate that exists on disk, and otherwise consumes a single raw segment
// even if the resulting path does not exist. Best effort: ambiguous when
// several real directories could extend a partial match.
func DecodeProjectPath(dirName string) string {
	if dirName == "" {
		return ""
	}

	segments := strings.Split(dirName, "-")
	// Leading "/" encodes to a leading "-", which splits into an empty
	// first segment. Drop it.
	if len(segments) > 0 && segments[0] == "" {
		segments = segments[1:]
	}

	path := "/"
	i := 0
	for i < len(segments) {
		matched := 0
		for j := len(segments); j > i; j-- {
			candidate := strings.Join(segments[i:j], "-")
			testPath := filepath.Join(path, candidate)
			if pathExists(testPath) {
				path = testPath
				matched = j - i
				break
			}
		}
		if matched == 0 {
			// No candidate exists on disk - take one raw segment.
			path = filepath.Join(path, segments[i])
			i++
		} else {
			i += matched
		}
	}

	return path
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RepoName returns the project identity key for a resolved path: its last
// segment, or fallback when the path has none.
func RepoName(path, fallback string) string {
	name := filepath.Base(path)
	if name == "" || name == "." || name == "/" {
		return fallback
	}
	return name
}
