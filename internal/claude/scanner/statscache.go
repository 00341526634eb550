package scanner

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/robinbaebae/sprt/internal/models"
)

// ReadStatsCache loads the precomputed stats cache Claude Code maintains at
// ~/.claude/stats-cache.json. The file is consumed verbatim; a missing or
// malformed file is a hard error, unlike transcript scanning.
func ReadStatsCache(path string) (*models.StatsCache, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read stats-cache.json: %w", err)
	}

	var cache models.StatsCache
	if err := json.Unmarshal(content, &cache); err != nil {
		return nil, fmt.Errorf("cannot parse stats-cache.json: %w", err)
	}
	return &cache, nil
}
