// Package profile builds the structured skill profile of a job description and resume.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/upskill-roadmap/internal/logging"
	"github.com/jonathan/upskill-roadmap/internal/schemas"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

// MaxSkills caps the number of skills kept in a profile.
const MaxSkills = 8

// DefaultImportance is used when the extractor omits a skill's score.
const DefaultImportance = 5

// dependencyName identifies the text-understanding capability in errors and warnings.
const dependencyName = "text understanding"

// TextExtractor is the text-understanding capability. Both calls return raw JSON.
type TextExtractor interface {
	ExtractJobProfile(ctx context.Context, jdText string) ([]byte, error)
	ExtractResumeSkills(ctx context.Context, resumeText string) ([]byte, error)
}

// Builder turns job description and resume text into a SkillProfile.
type Builder struct {
	extractor TextExtractor
	logger    *zap.Logger
}

// NewBuilder creates a builder. A nil extractor makes every Build fail with DependencyError.
func NewBuilder(extractor TextExtractor, logger *zap.Logger) *Builder {
	return &Builder{
		extractor: extractor,
		logger:    logging.Component(logger, "context_builder"),
	}
}

type rawJobProfile struct {
	Role    string     `json:"role"`
	Company string     `json:"company"`
	Skills  []rawSkill `json:"skills"`
}

type rawSkill struct {
	Name            string   `json:"name"`
	Priority        string   `json:"priority"`
	ImportanceScore *float64 `json:"importance_score"`
	Rationale       string   `json:"rationale"`
}

type rawResumeSkills struct {
	Skills []string `json:"skills"`
}

// Build extracts the role, company and ranked skills from jdText. When resumeText is
// non-nil the candidate's skills are extracted too; failures there only add a warning.
func (b *Builder) Build(ctx context.Context, jdText string, resumeText *string) (*types.SkillProfile, error) {
	jdText = strings.TrimSpace(jdText)
	if jdText == "" {
		return nil, &types.InputError{Field: "jd_text", Message: "job description is empty"}
	}
	if b.extractor == nil {
		return nil, &types.DependencyError{Dependency: dependencyName, Message: "not configured"}
	}

	raw, err := b.extractor.ExtractJobProfile(ctx, jdText)
	if err != nil {
		return nil, &types.DependencyError{Dependency: dependencyName, Message: "job profile extraction failed", Cause: err}
	}
	if err := schemas.Validate(schemas.JobProfile, raw); err != nil {
		return nil, &types.DependencyError{Dependency: dependencyName, Message: "malformed job profile", Cause: err}
	}

	var job rawJobProfile
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, &types.DependencyError{Dependency: dependencyName, Message: "malformed job profile", Cause: err}
	}

	profile := &types.SkillProfile{
		Role:            strings.TrimSpace(job.Role),
		Company:         strings.TrimSpace(job.Company),
		Skills:          rankSkills(job.Skills),
		CandidateSkills: []string{},
	}

	if resumeText != nil {
		skills, err := b.candidateSkills(ctx, *resumeText)
		if err != nil {
			warning := fmt.Sprintf("resume skills unavailable: %v", err)
			profile.Warnings = append(profile.Warnings, warning)
			b.logger.Warn("resume skill extraction failed", zap.Error(err))
		} else {
			profile.CandidateSkills = skills
		}
	}

	b.logger.Debug("built skill profile",
		zap.String("role", profile.Role),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("candidate_skills", len(profile.CandidateSkills)))

	return profile, nil
}

func (b *Builder) candidateSkills(ctx context.Context, resumeText string) ([]string, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	raw, err := b.extractor.ExtractResumeSkills(ctx, resumeText)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.ResumeSkills, raw); err != nil {
		return nil, err
	}

	var resume rawResumeSkills
	if err := json.Unmarshal(raw, &resume); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resume.Skills))
	for _, s := range resume.Skills {
		names = append(names, CanonicalSkillName(s))
	}
	return types.UniqueSkillNames(names), nil
}

// rankSkills normalizes, deduplicates, orders by importance and caps the extracted skills.
// Duplicates keep the higher score in the slot of the first occurrence; ties keep the earlier one.
func rankSkills(raw []rawSkill) []types.Skill {
	skills := make([]types.Skill, 0, len(raw))
	index := make(map[string]int, len(raw))

	for _, r := range raw {
		name := CanonicalSkillName(r.Name)
		key := types.SkillKey(name)
		if key == "" {
			continue
		}

		skill := types.Skill{
			Name:            name,
			Priority:        types.NormalizePriority(r.Priority),
			ImportanceScore: normalizeScore(r.ImportanceScore),
			Rationale:       strings.TrimSpace(r.Rationale),
		}

		if i, ok := index[key]; ok {
			if skill.ImportanceScore > skills[i].ImportanceScore {
				skills[i] = skill
			}
			continue
		}
		index[key] = len(skills)
		skills = append(skills, skill)
	}

	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].ImportanceScore > skills[j].ImportanceScore
	})

	if len(skills) > MaxSkills {
		skills = skills[:MaxSkills]
	}
	return skills
}

// normalizeScore rounds half away from zero and clamps into the importance range.
func normalizeScore(score *float64) int {
	if score == nil || math.IsNaN(*score) {
		return DefaultImportance
	}
	bounded := math.Max(types.MinImportance-1, math.Min(types.MaxImportance+1, *score))
	return types.ClampImportance(int(math.Round(bounded)))
}
