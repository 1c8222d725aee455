package roadmap

import (
	"fmt"
	"strings"

	"github.com/jonathan/upskill-roadmap/internal/types"
)

// MatchPolicy decides when a candidate skill covers a required skill.
type MatchPolicy string

const (
	// MatchContains matches when either name contains the other as a whole term,
	// case-insensitively ("Python" and "Python 3.11", but not "Go" and "Django")
	MatchContains MatchPolicy = "contains"
	// MatchExact matches on case-insensitive equality
	MatchExact MatchPolicy = "exact"
)

// ParseMatchPolicy accepts "contains", "exact" or "" (contains).
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchContains:
		return MatchContains, nil
	case MatchExact:
		return MatchExact, nil
	default:
		return "", fmt.Errorf("unknown skill match policy %q", s)
	}
}

// Covers reports whether candidate satisfies required under the policy.
func (p MatchPolicy) Covers(required, candidate string) bool {
	r, c := types.SkillKey(required), types.SkillKey(candidate)
	if r == "" || c == "" {
		return false
	}
	if p == MatchExact {
		return r == c
	}
	return types.ContainsTerm(r, c) || types.ContainsTerm(c, r)
}

// SkillGap returns the profile skills no candidate skill covers, in profile order.
// When every skill is covered the full list is returned so the roadmap is never empty.
func SkillGap(skills []types.Skill, candidateSkills []string, policy MatchPolicy) []string {
	all := make([]string, 0, len(skills))
	gap := make([]string, 0, len(skills))
	for _, s := range skills {
		all = append(all, s.Name)
		covered := false
		for _, c := range candidateSkills {
			if policy.Covers(s.Name, c) {
				covered = true
				break
			}
		}
		if !covered {
			gap = append(gap, s.Name)
		}
	}
	if len(gap) == 0 {
		return all
	}
	return gap
}
