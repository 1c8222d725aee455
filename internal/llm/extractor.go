// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/upskill-roadmap/internal/prompts"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobProfile")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model
	Description string
	Required    bool
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		fmt.Fprintf(&sb, "  \"%s\": %s%s", field.Name, typeHint, requiredHint)
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Only use information present in the text, do not invent skills.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// JobProfileSchema returns the extraction schema for job descriptions.
func JobProfileSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobProfile",
		Description: prompts.MustGet("context.json", "extract-job-profile"),
		Fields: []SchemaField{
			{
				Name:        "role",
				Description: "Job title as written in the posting",
				Required:    true,
			},
			{
				Name:        "company",
				Description: "Hiring company name, empty if not stated",
			},
			{
				Name:        "skills",
				Type:        `[{"name": "string", "priority": "must-have|nice-to-have", "importance_score": 0-10, "rationale": "string"}]`,
				Description: "Most important skills first, at most 8",
				Required:    true,
			},
		},
	}
}

// ResumeSkillsSchema returns the extraction schema for candidate resumes.
func ResumeSkillsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "ResumeSkills",
		Description: prompts.MustGet("context.json", "extract-resume-skills"),
		Fields: []SchemaField{
			{
				Name:        "skills",
				Type:        `["string"]`,
				Description: "Skills the candidate already has",
				Required:    true,
			},
		},
	}
}
