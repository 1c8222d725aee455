// Package insight gathers company and skill context for a skill profile from web search.
package insight

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/upskill-roadmap/internal/logging"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

// MaxSkillTopics bounds the number of per-skill searches in one enrichment.
const MaxSkillTopics = 3

// SearchResult is a single hit returned by a Searcher.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string // plain text
}

// Searcher is the web search capability.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// Options tunes the fan-out.
type Options struct {
	MaxSkillTopics  int // clamped to [0, MaxSkillTopics]
	ResultsPerTopic int
	Concurrency     int
}

// DefaultOptions returns the options used by the service.
func DefaultOptions() Options {
	return Options{
		MaxSkillTopics:  MaxSkillTopics,
		ResultsPerTopic: 3,
		Concurrency:     4,
	}
}

func (o *Options) normalize() {
	o.MaxSkillTopics = min(MaxSkillTopics, max(0, o.MaxSkillTopics))
	if o.ResultsPerTopic < 1 {
		o.ResultsPerTopic = 3
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
}

// Topic is one search to run for a profile.
type Topic struct {
	Name  string
	Query string
}

// Engine enriches skill profiles with search-backed insights.
type Engine struct {
	searcher Searcher
	opts     Options
	logger   *zap.Logger
}

// NewEngine creates an engine. A nil searcher disables enrichment.
func NewEngine(searcher Searcher, opts Options, logger *zap.Logger) *Engine {
	opts.normalize()
	return &Engine{
		searcher: searcher,
		opts:     opts,
		logger:   logging.Component(logger, "insight_engine"),
	}
}

// Topics lists the searches for a profile in submission order: the company tech
// stack first, then up to maxSkills skills with must-haves ahead of nice-to-haves.
func Topics(profile *types.SkillProfile, maxSkills int) []Topic {
	var topics []Topic

	subject := profile.Company
	if subject == "" {
		subject = profile.Role
	}

	switch {
	case profile.Company != "":
		topics = append(topics, Topic{Name: "company tech stack", Query: profile.Company + " engineering tech stack"})
	case profile.Role != "":
		topics = append(topics, Topic{Name: "company tech stack", Query: profile.Role + " tech stack"})
	}

	for _, skill := range prioritizedSkills(profile.Skills, maxSkills) {
		query := strings.TrimSpace(skill + " " + subject + " use cases")
		topics = append(topics, Topic{Name: "skill: " + skill, Query: query})
	}
	return topics
}

func prioritizedSkills(skills []types.Skill, limit int) []string {
	names := make([]string, 0, limit)
	for _, priority := range []string{types.PriorityMustHave, types.PriorityNiceToHave} {
		for _, s := range skills {
			if len(names) == limit {
				return names
			}
			if s.Priority == priority {
				names = append(names, s.Name)
			}
		}
	}
	return names
}

// Enrich runs one search per topic concurrently and maps the hits to insights in topic
// order. Failed searches are logged and skipped. The result is never nil.
func (e *Engine) Enrich(ctx context.Context, profile *types.SkillProfile) []types.CompanyInsight {
	insights := []types.CompanyInsight{}
	if e.searcher == nil || profile == nil {
		return insights
	}

	topics := Topics(profile, e.opts.MaxSkillTopics)
	if len(topics) == 0 {
		return insights
	}

	results := make([][]SearchResult, len(topics))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, topic := range topics {
		g.Go(func() error {
			hits, err := e.searcher.Search(gCtx, topic.Query, e.opts.ResultsPerTopic)
			if err != nil {
				e.logger.Warn("insight search failed",
					zap.String(logging.FieldTopic, topic.Name),
					zap.Error(err))
				return nil
			}
			results[i] = hits
			return nil
		})
	}
	_ = g.Wait()

	skills := profile.SkillNames()
	seen := make(map[string]bool)
	for _, hits := range results {
		for _, hit := range hits {
			key := strings.TrimSpace(hit.URL)
			if key != "" {
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			insights = append(insights, toInsight(hit, skills))
		}
	}

	e.logger.Debug("enriched profile",
		zap.Int("topics", len(topics)),
		zap.Int("insights", len(insights)))
	return insights
}

func toInsight(hit SearchResult, skills []string) types.CompanyInsight {
	text := hit.Title + "\n" + hit.Snippet
	used := matchSkills(text, skills)
	return types.CompanyInsight{
		Title:      strings.TrimSpace(hit.Title),
		URL:        strings.TrimSpace(hit.URL),
		Content:    strings.TrimSpace(hit.Snippet),
		SkillsUsed: used,
		Relevance:  relevance(len(used)),
	}
}

func relevance(matches int) string {
	switch {
	case matches >= 2:
		return types.RelevanceHigh
	case matches == 1:
		return types.RelevanceMedium
	default:
		return types.RelevanceLow
	}
}

// matchSkills returns the skills mentioned in text, in profile order.
func matchSkills(text string, skills []string) []string {
	lower := strings.ToLower(text)
	used := []string{}
	for _, skill := range skills {
		if types.ContainsTerm(lower, strings.ToLower(skill)) {
			used = append(used, skill)
		}
	}
	return used
}
