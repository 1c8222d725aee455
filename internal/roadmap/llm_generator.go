package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/upskill-roadmap/internal/llm"
	"github.com/jonathan/upskill-roadmap/internal/prompts"
	"github.com/jonathan/upskill-roadmap/internal/schemas"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

// LLMGenerator asks a model for phase resources.
type LLMGenerator struct {
	client llm.Client
}

// NewLLMGenerator creates a generator on client.
func NewLLMGenerator(client llm.Client) *LLMGenerator {
	return &LLMGenerator{client: client}
}

type learningPlan struct {
	Resources []struct {
		Type        string `json:"type"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		Skill       string `json:"skill"`
	} `json:"resources"`
	Project *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"project"`
}

// Generate makes one JSON call per phase and validates the result.
func (g *LLMGenerator) Generate(ctx context.Context, req PhaseRequest) (*PhaseContent, error) {
	prompt, err := prompts.Render("roadmap.json", "generate-learning-plan", map[string]string{
		"Stage":        req.Stage.Name,
		"Role":         req.Role,
		"Skills":       strings.Join(req.Skills, ", "),
		"Focus":        req.Stage.Focus,
		"MaxResources": strconv.Itoa(req.MaxResources),
		"Difficulty":   req.Stage.Difficulty,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render learning plan prompt: %w", err)
	}

	out, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &types.DependencyError{Dependency: "text understanding", Message: "learning plan generation failed", Cause: err}
	}
	if err := schemas.Validate(schemas.LearningPlan, []byte(out)); err != nil {
		return nil, &types.DependencyError{Dependency: "text understanding", Message: "malformed learning plan", Cause: err}
	}

	var plan learningPlan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		return nil, &types.DependencyError{Dependency: "text understanding", Message: "malformed learning plan", Cause: err}
	}

	content := &PhaseContent{}
	for _, r := range plan.Resources {
		kind := strings.ToLower(strings.TrimSpace(r.Type))
		if kind == "" {
			kind = "docs"
		}
		description := strings.TrimSpace(r.Description)
		if skill := strings.TrimSpace(r.Skill); skill != "" {
			description = strings.TrimSpace(fmt.Sprintf("[%s] %s", skill, description))
		}
		content.Resources = append(content.Resources, types.Resource{
			Type:        kind,
			Title:       strings.TrimSpace(r.Title),
			URL:         strings.TrimSpace(r.URL),
			Description: description,
		})
	}
	if plan.Project != nil && strings.TrimSpace(plan.Project.Title) != "" {
		content.Project = &types.Project{
			Title:       strings.TrimSpace(plan.Project.Title),
			Description: strings.TrimSpace(plan.Project.Description),
			Difficulty:  req.Stage.Difficulty,
		}
	}
	return content, nil
}
