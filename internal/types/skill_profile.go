// Package types provides type definitions for structured data used throughout the upskill-roadmap system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Priority levels for a required skill
const (
	PriorityMustHave   = "must-have"
	PriorityNiceToHave = "nice-to-have"
)

// Importance score bounds
const (
	MinImportance = 0
	MaxImportance = 10
)

// Skill represents a single skill required by a role
type Skill struct {
	Name            string `json:"name"`
	Priority        string `json:"priority"`         // must-have or nice-to-have
	ImportanceScore int    `json:"importance_score"` // 0-10
	Rationale       string `json:"rationale,omitempty"`
}

// SkillProfile is the structured view of a job description produced by the context builder.
// It is never persisted directly; JdAnalysis carries its fields.
type SkillProfile struct {
	Role            string   `json:"role"`
	Company         string   `json:"company,omitempty"`
	Skills          []Skill  `json:"skills"`
	CandidateSkills []string `json:"candidate_skills"`
	Warnings        []string `json:"warnings,omitempty"`
}

// SkillNames returns the skill names in profile order
func (p *SkillProfile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}

// ClampImportance bounds a score into [MinImportance, MaxImportance]
func ClampImportance(score int) int {
	return min(MaxImportance, max(MinImportance, score))
}

// NormalizePriority maps free-form priority labels onto the two supported levels.
func NormalizePriority(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "must-have", "must have", "musthave", "must", "required":
		return PriorityMustHave
	default:
		return PriorityNiceToHave
	}
}

// SkillKey returns the case-insensitive identity of a skill name
func SkillKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// UniqueSkillNames trims and deduplicates names case-insensitively, keeping the
// first spelling and the original order. Empty names are dropped.
func UniqueSkillNames(names []string) []string {
	result := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := SkillKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, name)
	}
	return result
}

// ContainsTerm reports whether term occurs in text without letters or digits
// directly on either side, so "go" does not match "google" or "django".
// Both arguments are compared as given; callers lowercase them.
func ContainsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
