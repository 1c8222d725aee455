package types

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Relevance levels for a company insight
const (
	RelevanceLow    = "low"
	RelevanceMedium = "medium"
	RelevanceHigh   = "high"
)

// CompanyInsight is a single researched fact about how the company or industry uses a skill
type CompanyInsight struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Content    string   `json:"content"`
	SkillsUsed []string `json:"skills_used"`
	Relevance  string   `json:"relevance"`
}

// JdAnalysis is the persisted result of analyzing a job description.
// Immutable once stored; a re-analysis mints a new JDID.
type JdAnalysis struct {
	JDID            string           `json:"jd_id"`
	Role            string           `json:"role"`
	Company         string           `json:"company,omitempty"`
	Skills          []Skill          `json:"skills"`
	CandidateSkills []string         `json:"candidate_skills"`
	CompanyInsights []CompanyInsight `json:"company_insights"`
	Warnings        []string         `json:"warnings,omitempty"`
	Owner           uuid.UUID        `json:"owner"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Profile rebuilds the skill profile the analysis was created from
func (a *JdAnalysis) Profile() *SkillProfile {
	return &SkillProfile{
		Role:            a.Role,
		Company:         a.Company,
		Skills:          slices.Clone(a.Skills),
		CandidateSkills: slices.Clone(a.CandidateSkills),
	}
}

// Clone returns a deep copy so callers cannot mutate stored records
func (a *JdAnalysis) Clone() *JdAnalysis {
	if a == nil {
		return nil
	}
	c := *a
	c.Skills = slices.Clone(a.Skills)
	c.CandidateSkills = slices.Clone(a.CandidateSkills)
	c.Warnings = slices.Clone(a.Warnings)
	c.CompanyInsights = make([]CompanyInsight, len(a.CompanyInsights))
	for i, in := range a.CompanyInsights {
		in.SkillsUsed = slices.Clone(in.SkillsUsed)
		c.CompanyInsights[i] = in
	}
	return &c
}
