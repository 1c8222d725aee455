package roadmap

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/upskill-roadmap/internal/types"
)

// stageResource is the second resource each stage adds per skill.
type stageResource struct {
	kind        string
	title       string // format with the skill name
	description string
	link        func(skill string) string
}

var stageResources = map[string]stageResource{
	"Beginner": {
		kind:        "video",
		title:       "%s crash course",
		description: "Watch an introductory walkthrough and follow along",
		link: func(skill string) string {
			return "https://www.youtube.com/results?search_query=" + url.QueryEscape(skill+" crash course")
		},
	},
	"Intermediate": {
		kind:        "course",
		title:       "Hands-on %s course",
		description: "Work through guided exercises and build small features",
		link: func(skill string) string {
			return "https://www.coursera.org/search?query=" + url.QueryEscape(skill)
		},
	},
	"Job-Ready": {
		kind:        "tutorial",
		title:       "%s in production",
		description: "Study open-source projects that run it at scale",
		link: func(skill string) string {
			return "https://github.com/search?type=repositories&q=" + url.QueryEscape(skill+" production")
		},
	},
}

var stageProjects = map[string]string{
	"Beginner":     "Build a small command-line tool or script that uses %s end to end.",
	"Intermediate": "Build a working service that combines %s, with tests and a README.",
	"Job-Ready":    "Ship a production-style project using %s with CI, containerized deployment and monitoring.",
}

// TemplateGenerator produces deterministic resources from fixed templates.
type TemplateGenerator struct{}

// NewTemplateGenerator creates a template generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Generate returns a documentation resource and a stage resource per skill plus one project.
func (g *TemplateGenerator) Generate(_ context.Context, req PhaseRequest) (*PhaseContent, error) {
	content := &PhaseContent{}
	extra, hasExtra := stageResources[req.Stage.Name]

	for _, skill := range req.Skills {
		content.Resources = append(content.Resources, types.Resource{
			Type:        "docs",
			Title:       skill + " official documentation",
			URL:         searchURL(skill + " official documentation"),
			Description: fmt.Sprintf("[%s] Start with official documentation", skill),
		})
		if hasExtra {
			content.Resources = append(content.Resources, types.Resource{
				Type:        extra.kind,
				Title:       fmt.Sprintf(extra.title, skill),
				URL:         extra.link(skill),
				Description: fmt.Sprintf("[%s] %s", skill, extra.description),
			})
		}
	}

	if len(req.Skills) > 0 {
		joined := strings.Join(req.Skills, ", ")
		description := fmt.Sprintf("Practice %s through hands-on work.", joined)
		if tmpl, ok := stageProjects[req.Stage.Name]; ok {
			description = fmt.Sprintf(tmpl, joined)
		}
		title := req.Stage.Name + " project"
		if req.Role != "" {
			title = fmt.Sprintf("%s %s project", req.Stage.Name, req.Role)
		}
		content.Project = &types.Project{
			Title:       title,
			Description: description,
			Difficulty:  req.Stage.Difficulty,
		}
	}

	return content, nil
}
