//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampImportance(t *testing.T) {
	assert.Equal(t, 0, ClampImportance(-3))
	assert.Equal(t, 7, ClampImportance(7))
	assert.Equal(t, 10, ClampImportance(42))
}

func TestNormalizePriority(t *testing.T) {
	tests := map[string]string{
		"must-have":    PriorityMustHave,
		"Must Have":    PriorityMustHave,
		"required":     PriorityMustHave,
		"nice-to-have": PriorityNiceToHave,
		"optional":     PriorityNiceToHave,
		"":             PriorityNiceToHave,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePriority(in), "input %q", in)
	}
}

func TestUniqueSkillNames(t *testing.T) {
	got := UniqueSkillNames([]string{" Python ", "python", "", "Go", "GO", "Docker"})
	assert.Equal(t, []string{"Python", "Go", "Docker"}, got)
}

func TestContainsTerm(t *testing.T) {
	assert.True(t, ContainsTerm("we use go and rust", "go"))
	assert.False(t, ContainsTerm("google search", "go"))
	assert.False(t, ContainsTerm("django", "go"))
	assert.True(t, ContainsTerm("c++ and java", "c++"))
	assert.True(t, ContainsTerm("built with node.js.", "node.js"))
	assert.False(t, ContainsTerm("javascript", "java"))
	assert.False(t, ContainsTerm("anything", ""))
}

func TestCountDistinctSkills(t *testing.T) {
	phases := []Phase{
		{Week: 1, Skills: []string{"Python", "AWS"}},
		{Week: 2, Skills: []string{"aws", "Docker"}},
		{Week: 3, Skills: nil},
	}
	assert.Equal(t, 3, CountDistinctSkills(phases))
}

func TestJdAnalysis_CloneIsDeep(t *testing.T) {
	orig := &JdAnalysis{
		JDID:            "jd_abc",
		Skills:          []Skill{{Name: "Go", ImportanceScore: 9}},
		CompanyInsights: []CompanyInsight{{Title: "t", SkillsUsed: []string{"Go"}}},
		Owner:           uuid.New(),
		CreatedAt:       time.Now(),
	}

	c := orig.Clone()
	c.Skills[0].Name = "Rust"
	c.CompanyInsights[0].SkillsUsed[0] = "Rust"

	assert.Equal(t, "Go", orig.Skills[0].Name)
	assert.Equal(t, "Go", orig.CompanyInsights[0].SkillsUsed[0])
}

func TestJdAnalysis_Profile(t *testing.T) {
	a := &JdAnalysis{Role: "Backend Engineer", Company: "Acme", Skills: []Skill{{Name: "Go"}}, CandidateSkills: []string{"Python"}}
	p := a.Profile()
	assert.Equal(t, "Backend Engineer", p.Role)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, []string{"Go"}, p.SkillNames())
	assert.Equal(t, []string{"Python"}, p.CandidateSkills)
}

func TestRoadmap_CloneIsDeep(t *testing.T) {
	orig := &Roadmap{Phases: []Phase{{Week: 1, Skills: []string{"Go"}, Resources: []Resource{{Title: "docs"}}}}}
	c := orig.Clone()
	c.Phases[0].Skills[0] = "Rust"
	c.Phases[0].Resources[0].Title = "other"
	assert.Equal(t, "Go", orig.Phases[0].Skills[0])
	assert.Equal(t, "docs", orig.Phases[0].Resources[0].Title)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&InputError{Field: "jd_text", Message: "empty"}, KindInput},
		{&UnsupportedFormatError{Filename: "cv.docx", Accepted: "PDF"}, KindUnsupportedFormat},
		{&AuthError{Message: "missing token"}, KindAuth},
		{fmt.Errorf("load: %w", &NotFoundError{Resource: "jd analysis", ID: "jd_x"}), KindNotFound},
		{&DependencyError{Dependency: "text understanding", Message: "timeout"}, KindDependency},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err))
	}
}

func TestDependencyError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &DependencyError{Dependency: "search", Message: "query failed", Cause: cause}
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "quota exceeded")
}
