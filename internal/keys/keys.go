package keys

import (
	"sort"
	"strings"
)

// PairKey produces a canonical key for an unordered set of participant
// identities: trims and lower-cases each id, drops empty ones, sorts and
// joins with ':'. PairKey("Bob", "alice") == PairKey("alice", "bob").
func PairKey(ids ...string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		s := strings.ToLower(strings.TrimSpace(id))
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	sort.Strings(parts)
	return strings.Join(parts, ":")
}
