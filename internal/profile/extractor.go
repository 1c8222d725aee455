package profile

import (
	"context"

	"github.com/jonathan/upskill-roadmap/internal/llm"
)

// LLMExtractor implements TextExtractor on an llm.Client.
type LLMExtractor struct {
	client        llm.Client
	maxInputRunes int
}

// NewLLMExtractor creates an extractor. maxInputRunes <= 0 disables truncation.
func NewLLMExtractor(client llm.Client, maxInputRunes int) *LLMExtractor {
	return &LLMExtractor{client: client, maxInputRunes: maxInputRunes}
}

// ExtractJobProfile asks the model for role, company and ranked skills.
func (e *LLMExtractor) ExtractJobProfile(ctx context.Context, jdText string) ([]byte, error) {
	prompt := llm.BuildExtractionPrompt(llm.JobProfileSchema(), llm.TruncateRunes(jdText, e.maxInputRunes))
	out, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// ExtractResumeSkills asks the model for the candidate's skills.
func (e *LLMExtractor) ExtractResumeSkills(ctx context.Context, resumeText string) ([]byte, error) {
	prompt := llm.BuildExtractionPrompt(llm.ResumeSkillsSchema(), llm.TruncateRunes(resumeText, e.maxInputRunes))
	out, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
