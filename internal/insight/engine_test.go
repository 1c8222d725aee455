package insight

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/upskill-roadmap/internal/types"
)

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	results map[string][]SearchResult
	errs    map[string]error
	delays  map[string]time.Duration
}

func (f *fakeSearcher) Search(ctx context.Context, query string, _ int) ([]SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if d := f.delays[query]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func backendProfile() *types.SkillProfile {
	return &types.SkillProfile{
		Role:    "Backend Engineer",
		Company: "Acme",
		Skills: []types.Skill{
			{Name: "Docker", Priority: types.PriorityNiceToHave, ImportanceScore: 9},
			{Name: "Python", Priority: types.PriorityMustHave, ImportanceScore: 8},
			{Name: "AWS", Priority: types.PriorityMustHave, ImportanceScore: 7},
			{Name: "Go", Priority: types.PriorityNiceToHave, ImportanceScore: 5},
		},
	}
}

func TestTopics(t *testing.T) {
	topics := Topics(backendProfile(), 3)

	queries := make([]string, 0, len(topics))
	for _, tp := range topics {
		queries = append(queries, tp.Query)
	}
	assert.Equal(t, []string{
		"Acme engineering tech stack",
		"Python Acme use cases",
		"AWS Acme use cases",
		"Docker Acme use cases",
	}, queries)
}

func TestTopics_WithoutCompany(t *testing.T) {
	p := backendProfile()
	p.Company = ""
	topics := Topics(p, 1)
	require.Len(t, topics, 2)
	assert.Equal(t, "Backend Engineer tech stack", topics[0].Query)
	assert.Equal(t, "Python Backend Engineer use cases", topics[1].Query)

	assert.Empty(t, Topics(&types.SkillProfile{}, 3))
}

func TestEnrich_NilSearcher(t *testing.T) {
	got := NewEngine(nil, DefaultOptions(), nil).Enrich(context.Background(), backendProfile())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEnrich_AggregatesInTopicOrder(t *testing.T) {
	fake := &fakeSearcher{
		results: map[string][]SearchResult{
			"Acme engineering tech stack": {
				{Title: "Acme stack", URL: "https://acme.dev/stack", Snippet: "We run Python services on AWS with Docker."},
			},
			"Python Acme use cases": {
				{Title: "Python at Acme", URL: "https://acme.dev/python", Snippet: "Data pipelines."},
				{Title: "dup", URL: "https://acme.dev/stack", Snippet: "duplicate"},
			},
			"AWS Acme use cases": {
				{Title: "Google Cloud migration", URL: "https://acme.dev/cloud", Snippet: "Nothing relevant."},
			},
		},
		// the first topic finishes last
		delays: map[string]time.Duration{"Acme engineering tech stack": 30 * time.Millisecond},
	}

	got := NewEngine(fake, DefaultOptions(), nil).Enrich(context.Background(), backendProfile())

	require.Len(t, got, 3)
	assert.Equal(t, "https://acme.dev/stack", got[0].URL)
	assert.Equal(t, []string{"Docker", "Python", "AWS"}, got[0].SkillsUsed)
	assert.Equal(t, types.RelevanceHigh, got[0].Relevance)

	assert.Equal(t, "https://acme.dev/python", got[1].URL)
	assert.Equal(t, []string{"Python"}, got[1].SkillsUsed)
	assert.Equal(t, types.RelevanceMedium, got[1].Relevance)

	// "Go" must not match inside "Google"
	assert.Equal(t, "https://acme.dev/cloud", got[2].URL)
	assert.Empty(t, got[2].SkillsUsed)
	assert.Equal(t, types.RelevanceLow, got[2].Relevance)
}

func TestEnrich_FailuresAreAbsorbed(t *testing.T) {
	fake := &fakeSearcher{
		results: map[string][]SearchResult{
			"Python Acme use cases": {{Title: "Python", URL: "https://x/py", Snippet: "python"}},
		},
		errs: map[string]error{
			"Acme engineering tech stack": errors.New("quota exceeded"),
			"AWS Acme use cases":          context.DeadlineExceeded,
		},
	}
	core, logs := observer.New(zapcore.WarnLevel)

	got := NewEngine(fake, DefaultOptions(), zap.New(core)).Enrich(context.Background(), backendProfile())

	require.Len(t, got, 1)
	assert.Equal(t, "https://x/py", got[0].URL)
	assert.Equal(t, 2, logs.FilterMessage("insight search failed").Len())
}

func TestEnrich_RespectsSkillTopicLimit(t *testing.T) {
	fake := &fakeSearcher{}
	opts := DefaultOptions()
	opts.MaxSkillTopics = 1

	got := NewEngine(fake, opts, nil).Enrich(context.Background(), backendProfile())
	assert.Empty(t, got)

	sort.Strings(fake.queries)
	assert.Equal(t, []string{"Acme engineering tech stack", "Python Acme use cases"}, fake.queries)
}

func TestOptions_Normalize(t *testing.T) {
	o := Options{MaxSkillTopics: 9, ResultsPerTopic: 0, Concurrency: -1}
	o.normalize()
	assert.Equal(t, Options{MaxSkillTopics: MaxSkillTopics, ResultsPerTopic: 3, Concurrency: 1}, o)
}
