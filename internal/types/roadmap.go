package types

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Project difficulty levels, one per roadmap stage
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Resource is a learning resource attached to a phase
type Resource struct {
	Type        string `json:"type"` // docs, tutorial, course, blog, project, video
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Project is a hands-on practice project attached to a phase
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

// Phase is one weekly stage of a roadmap
type Phase struct {
	Week        int        `json:"week"`
	Stage       string     `json:"stage"`
	Skills      []string   `json:"skills"`
	Resources   []Resource `json:"resources"`
	Projects    []Project  `json:"projects"`
	Description string     `json:"description"`
}

// Roadmap is the persisted learning plan generated from a JdAnalysis
type Roadmap struct {
	RoadmapID      string    `json:"roadmap_id"`
	JDID           string    `json:"jd_id"`
	Role           string    `json:"role"`
	Phases         []Phase   `json:"phases"`
	TotalSkills    int       `json:"total_skills"`
	EstimatedWeeks int       `json:"estimated_weeks"`
	Owner          uuid.UUID `json:"owner"`
	CreatedAt      time.Time `json:"created_at"`
}

// CountDistinctSkills counts skill names across phases, case-insensitively
func CountDistinctSkills(phases []Phase) int {
	seen := make(map[string]bool)
	for _, p := range phases {
		for _, s := range p.Skills {
			if key := SkillKey(s); key != "" {
				seen[key] = true
			}
		}
	}
	return len(seen)
}

// Clone returns a deep copy so callers cannot mutate stored records
func (r *Roadmap) Clone() *Roadmap {
	if r == nil {
		return nil
	}
	c := *r
	c.Phases = make([]Phase, len(r.Phases))
	for i, p := range r.Phases {
		p.Skills = slices.Clone(p.Skills)
		p.Resources = slices.Clone(p.Resources)
		p.Projects = slices.Clone(p.Projects)
		c.Phases[i] = p
	}
	return &c
}
