package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/upskill-roadmap/internal/config"
	"github.com/jonathan/upskill-roadmap/internal/document"
	"github.com/jonathan/upskill-roadmap/internal/insight"
	"github.com/jonathan/upskill-roadmap/internal/llm"
	"github.com/jonathan/upskill-roadmap/internal/pipeline"
	"github.com/jonathan/upskill-roadmap/internal/profile"
	"github.com/jonathan/upskill-roadmap/internal/roadmap"
	"github.com/jonathan/upskill-roadmap/internal/store"
)

// app holds the wired components shared by serve and analyze.
type app struct {
	orchestrator *pipeline.Orchestrator
	llmClient    llm.Client // nil when text understanding is unconfigured
}

func (a *app) Close() error {
	if a.llmClient != nil {
		return a.llmClient.Close()
	}
	return nil
}

// buildApp wires the pipeline from cfg. Missing API keys leave the matching
// capability unconfigured instead of failing: analyses then fail with a
// dependency error and insights come back empty.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	var extractor profile.TextExtractor
	if key := cfg.TextUnderstandingAPIKey(); key != "" {
		llmConfig := llm.ConfigFor(llm.Provider(cfg.LLM.Provider), cfg.LLM.Model)
		llmConfig.BaseURL = cfg.LLM.OpenAIBaseURL
		llmConfig.Timeout = cfg.LLM.Timeout

		client, err := llm.NewClient(ctx, llmConfig, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.llmClient = client
		extractor = profile.NewLLMExtractor(client, cfg.LLM.MaxInputRunes)
		logger.Info("text understanding configured",
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", client.GetModel(llm.TierStandard)))
	} else {
		logger.Warn("text understanding not configured; analyses will fail",
			zap.String("provider", cfg.LLM.Provider))
	}

	var searcher insight.Searcher
	if cfg.SearchConfigured() {
		s, err := insight.NewGoogleSearcher(ctx, cfg.Search.APIKey, cfg.Search.EngineID, cfg.Search.Timeout)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to create search client: %w", err)
		}
		searcher = s
	} else {
		logger.Info("search not configured; company insights disabled")
	}

	generator, err := resourceGenerator(cfg, a.llmClient)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	policy, err := roadmap.ParseMatchPolicy(cfg.Roadmap.MatchPolicy)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.orchestrator = pipeline.New(pipeline.Deps{
		Documents: document.NewPDFExtractor(),
		Builder:   profile.NewBuilder(extractor, logger),
		Insights: insight.NewEngine(searcher, insight.Options{
			MaxSkillTopics:  cfg.Search.MaxSkillTopics,
			ResultsPerTopic: cfg.Search.ResultsPerTopic,
			Concurrency:     insight.DefaultOptions().Concurrency,
		}, logger),
		Planner: roadmap.NewPlanner(generator, roadmap.Options{
			MatchPolicy:  policy,
			MaxResources: cfg.Roadmap.MaxResourcesPerPhase,
		}, logger),
		Store: store.NewMemory(),
	}, logger)

	return a, nil
}

// resourceGenerator picks the roadmap content source.
func resourceGenerator(cfg *config.Config, client llm.Client) (roadmap.ResourceGenerator, error) {
	switch cfg.Roadmap.Generator {
	case config.GeneratorLLM:
		if client == nil {
			return nil, fmt.Errorf("roadmap generator %q needs text understanding; set the %s API key", config.GeneratorLLM, cfg.LLM.Provider)
		}
		return roadmap.NewLLMGenerator(client), nil
	default:
		return roadmap.NewTemplateGenerator(), nil
	}
}
