// Package roadmap turns a skill profile into a three-phase learning roadmap.
package roadmap

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/upskill-roadmap/internal/logging"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

// DefaultMaxResources caps the resources attached to one phase.
const DefaultMaxResources = 10

// PhaseRequest is the input for generating one phase's material.
type PhaseRequest struct {
	Role         string
	Stage        Stage
	Skills       []string
	MaxResources int
}

// PhaseContent is the material generated for one phase.
type PhaseContent struct {
	Resources []types.Resource
	Project   *types.Project
}

// ResourceGenerator produces learning material for a phase.
type ResourceGenerator interface {
	Generate(ctx context.Context, req PhaseRequest) (*PhaseContent, error)
}

// Options configures a Planner.
type Options struct {
	MatchPolicy  MatchPolicy
	MaxResources int
}

// Planner builds roadmap phases from a profile.
type Planner struct {
	generator ResourceGenerator
	opts      Options
	logger    *zap.Logger
}

// NewPlanner creates a planner. A nil generator falls back to the template generator.
func NewPlanner(generator ResourceGenerator, opts Options, logger *zap.Logger) *Planner {
	if generator == nil {
		generator = NewTemplateGenerator()
	}
	if opts.MatchPolicy == "" {
		opts.MatchPolicy = MatchContains
	}
	if opts.MaxResources <= 0 {
		opts.MaxResources = DefaultMaxResources
	}
	return &Planner{
		generator: generator,
		opts:      opts,
		logger:    logging.Component(logger, "roadmap_planner"),
	}
}

// Plan computes the skill gap, spreads it over the three stages and attaches
// resources and a project to every non-empty phase. Generator errors are fatal.
func (p *Planner) Plan(ctx context.Context, profile *types.SkillProfile, candidateSkills []string) ([]types.Phase, error) {
	if profile == nil {
		return nil, &types.InputError{Field: "profile", Message: "missing skill profile"}
	}

	gap := SkillGap(profile.Skills, candidateSkills, p.opts.MatchPolicy)
	groups := Partition(gap)

	phases := make([]types.Phase, 0, len(Stages))
	for i, stage := range Stages {
		phase := types.Phase{
			Week:        i + 1,
			Stage:       stage.Name,
			Skills:      groups[i],
			Resources:   []types.Resource{},
			Projects:    []types.Project{},
			Description: stage.Description,
		}

		if len(phase.Skills) > 0 {
			content, err := p.generator.Generate(ctx, PhaseRequest{
				Role:         profile.Role,
				Stage:        stage,
				Skills:       phase.Skills,
				MaxResources: p.opts.MaxResources,
			})
			if err != nil {
				return nil, asDependencyError(err)
			}
			if content != nil {
				phase.Resources = capResources(content.Resources, p.opts.MaxResources)
				if content.Project != nil {
					project := *content.Project
					project.Difficulty = stage.Difficulty
					phase.Projects = append(phase.Projects, project)
				}
			}
			if len(phase.Resources) == 0 {
				phase.Resources = append(phase.Resources, fallbackResource(phase.Skills))
			}
		}

		phases = append(phases, phase)
	}

	p.logger.Debug("planned roadmap",
		zap.Int("gap_skills", len(gap)),
		zap.Int("candidate_skills", len(candidateSkills)))

	return phases, nil
}

func asDependencyError(err error) error {
	var derr *types.DependencyError
	if errors.As(err, &derr) {
		return err
	}
	return &types.DependencyError{Dependency: "resource generator", Message: "phase generation failed", Cause: err}
}

func capResources(resources []types.Resource, limit int) []types.Resource {
	out := make([]types.Resource, 0, min(len(resources), limit))
	for _, r := range resources {
		if len(out) == limit {
			break
		}
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// fallbackResource points at a documentation search for the phase's skills.
func fallbackResource(skills []string) types.Resource {
	return types.Resource{
		Type:        "docs",
		Title:       "Documentation",
		URL:         searchURL(strings.Join(skills, " ") + " official documentation"),
		Description: "Start with official documentation",
	}
}

func searchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}
