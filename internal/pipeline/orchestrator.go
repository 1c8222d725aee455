// Package pipeline sequences document extraction, profile building, insight
// enrichment and roadmap planning, and stores the results.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/upskill-roadmap/internal/document"
	"github.com/jonathan/upskill-roadmap/internal/logging"
	"github.com/jonathan/upskill-roadmap/internal/store"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

// Pipeline steps reported through ProgressCallback
const (
	StepResumeText = "resume_text"
	StepProfile    = "profile"
	StepInsights   = "insights"
	StepRoadmap    = "roadmap"
	StepStore      = "store"
)

// maxWarningRunes bounds the error text copied into an analysis warning.
const maxWarningRunes = 200

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// ProfileBuilder builds a skill profile from job description and resume text.
type ProfileBuilder interface {
	Build(ctx context.Context, jdText string, resumeText *string) (*types.SkillProfile, error)
}

// InsightEnricher adds best-effort company insights to a profile.
type InsightEnricher interface {
	Enrich(ctx context.Context, profile *types.SkillProfile) []types.CompanyInsight
}

// RoadmapPlanner turns a profile and the candidate's skills into phases.
type RoadmapPlanner interface {
	Plan(ctx context.Context, profile *types.SkillProfile, candidateSkills []string) ([]types.Phase, error)
}

// Deps are the components an Orchestrator sequences.
type Deps struct {
	Documents document.Extractor // nil: resumes are accepted but ignored with a warning
	Builder   ProfileBuilder
	Insights  InsightEnricher // nil: no insights
	Planner   RoadmapPlanner
	Store     store.ArtifactStore
}

// AnalyzeRequest is the input to Analyze.
type AnalyzeRequest struct {
	JDText string
	Resume *document.Upload
	Owner  uuid.UUID
}

// Orchestrator runs the analyze and roadmap pipelines.
type Orchestrator struct {
	deps       Deps
	logger     *zap.Logger
	onProgress ProgressCallback
	now        func() time.Time
	newID      func(prefix string) string
}

// New creates an orchestrator.
func New(deps Deps, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		deps:   deps,
		logger: logging.Component(logger, "pipeline"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  NewID,
	}
}

// WithProgress returns a copy of o that reports progress to fn.
func (o *Orchestrator) WithProgress(fn ProgressCallback) *Orchestrator {
	c := *o
	c.onProgress = fn
	return &c
}

func (o *Orchestrator) emit(step, message, id string) {
	if o.onProgress != nil {
		o.onProgress(ProgressEvent{Step: step, Message: message, ID: id})
	}
}

// Analyze extracts the resume text, builds the skill profile, enriches it with
// insights and stores the analysis under a new id. Resume text and insight
// failures degrade the result; profile failures abort it.
func (o *Orchestrator) Analyze(ctx context.Context, req AnalyzeRequest) (*types.JdAnalysis, error) {
	if strings.TrimSpace(req.JDText) == "" {
		return nil, &types.InputError{Field: "jd_text", Message: "job description is empty"}
	}

	var warnings []string
	var resumeText *string
	if req.Resume != nil {
		if err := document.CheckFormat(req.Resume); err != nil {
			return nil, err
		}
		text, err := o.extractResume(ctx, req.Resume)
		if err != nil {
			warnings = append(warnings, "resume text unavailable: "+logging.Truncate(err.Error(), maxWarningRunes))
			o.logger.Warn("resume text extraction failed",
				zap.String("filename", req.Resume.Filename),
				zap.Error(err))
		} else {
			resumeText = &text
			o.emit(StepResumeText, fmt.Sprintf("extracted %d characters from %s", len(text), req.Resume.Filename), "")
		}
	}

	profile, err := o.deps.Builder.Build(ctx, req.JDText, resumeText)
	if err != nil {
		return nil, err
	}
	o.emit(StepProfile, fmt.Sprintf("extracted %d skills for %q", len(profile.Skills), profile.Role), "")

	insights := []types.CompanyInsight{}
	if o.deps.Insights != nil {
		insights = o.deps.Insights.Enrich(ctx, profile)
	}
	o.emit(StepInsights, fmt.Sprintf("found %d company insights", len(insights)), "")

	analysis := &types.JdAnalysis{
		JDID:            o.newID(AnalysisIDPrefix),
		Role:            profile.Role,
		Company:         profile.Company,
		Skills:          profile.Skills,
		CandidateSkills: profile.CandidateSkills,
		CompanyInsights: insights,
		Warnings:        append(warnings, profile.Warnings...),
		Owner:           req.Owner,
		CreatedAt:       o.now(),
	}
	if analysis.CandidateSkills == nil {
		analysis.CandidateSkills = []string{}
	}

	if err := o.deps.Store.InsertAnalysis(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}
	o.emit(StepStore, "stored analysis", analysis.JDID)

	o.logger.Info("analysis created",
		zap.String(logging.FieldJDID, analysis.JDID),
		zap.String(logging.FieldOwner, req.Owner.String()),
		zap.Int("skills", len(analysis.Skills)),
		zap.Int("insights", len(analysis.CompanyInsights)),
		zap.Int("warnings", len(analysis.Warnings)))

	return analysis, nil
}

func (o *Orchestrator) extractResume(ctx context.Context, upload *document.Upload) (string, error) {
	if o.deps.Documents == nil {
		return "", fmt.Errorf("no document extractor configured")
	}
	return o.deps.Documents.Extract(ctx, upload)
}

// GenerateRoadmap plans a roadmap for one of owner's analyses and stores it under a new id.
func (o *Orchestrator) GenerateRoadmap(ctx context.Context, jdID string, owner uuid.UUID) (*types.Roadmap, error) {
	jdID = strings.TrimSpace(jdID)
	if jdID == "" {
		return nil, &types.InputError{Field: "jd_id", Message: "is required"}
	}

	analysis, err := o.deps.Store.GetAnalysis(ctx, jdID, owner)
	if err != nil {
		return nil, err
	}

	profile := analysis.Profile()
	phases, err := o.deps.Planner.Plan(ctx, profile, profile.CandidateSkills)
	if err != nil {
		return nil, err
	}
	o.emit(StepRoadmap, fmt.Sprintf("planned %d phases", len(phases)), "")

	roadmap := &types.Roadmap{
		RoadmapID:      o.newID(RoadmapIDPrefix),
		JDID:           analysis.JDID,
		Role:           analysis.Role,
		Phases:         phases,
		TotalSkills:    types.CountDistinctSkills(phases),
		EstimatedWeeks: len(phases),
		Owner:          owner,
		CreatedAt:      o.now(),
	}

	if err := o.deps.Store.InsertRoadmap(ctx, roadmap); err != nil {
		return nil, fmt.Errorf("failed to store roadmap: %w", err)
	}
	o.emit(StepStore, "stored roadmap", roadmap.RoadmapID)

	o.logger.Info("roadmap created",
		zap.String(logging.FieldRoadmapID, roadmap.RoadmapID),
		zap.String(logging.FieldJDID, jdID),
		zap.Int("total_skills", roadmap.TotalSkills))

	return roadmap, nil
}

// ListRoadmaps returns owner's roadmaps in creation order.
func (o *Orchestrator) ListRoadmaps(ctx context.Context, owner uuid.UUID) ([]types.Roadmap, error) {
	return o.deps.Store.ListRoadmaps(ctx, owner)
}

// ListAnalyses returns owner's analyses in creation order.
func (o *Orchestrator) ListAnalyses(ctx context.Context, owner uuid.UUID) ([]types.JdAnalysis, error) {
	return o.deps.Store.ListAnalyses(ctx, owner)
}

// GetAnalysis returns one of owner's analyses.
func (o *Orchestrator) GetAnalysis(ctx context.Context, jdID string, owner uuid.UUID) (*types.JdAnalysis, error) {
	return o.deps.Store.GetAnalysis(ctx, jdID, owner)
}

// GetRoadmap returns one of owner's roadmaps.
func (o *Orchestrator) GetRoadmap(ctx context.Context, roadmapID string, owner uuid.UUID) (*types.Roadmap, error) {
	return o.deps.Store.GetRoadmap(ctx, roadmapID, owner)
}
