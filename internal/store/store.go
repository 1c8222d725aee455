// Package store keeps analyses, roadmaps and users in process memory.
// Nothing survives a restart.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/upskill-roadmap/internal/types"
)

// ErrDuplicateID is returned when an artifact id is inserted twice.
var ErrDuplicateID = errors.New("duplicate artifact id")

// ArtifactStore holds analyses and roadmaps keyed by id and scoped by owner.
// Reads never return records belonging to another owner.
type ArtifactStore interface {
	InsertAnalysis(ctx context.Context, analysis *types.JdAnalysis) error
	GetAnalysis(ctx context.Context, jdID string, owner uuid.UUID) (*types.JdAnalysis, error)
	ListAnalyses(ctx context.Context, owner uuid.UUID) ([]types.JdAnalysis, error)

	InsertRoadmap(ctx context.Context, roadmap *types.Roadmap) error
	GetRoadmap(ctx context.Context, roadmapID string, owner uuid.UUID) (*types.Roadmap, error)
	ListRoadmaps(ctx context.Context, owner uuid.UUID) ([]types.Roadmap, error)
}

// Memory is an ArtifactStore backed by maps. Stored records are copies and are never mutated.
type Memory struct {
	mu          sync.RWMutex
	analyses    map[string]*types.JdAnalysis
	roadmaps    map[string]*types.Roadmap
	analysisIDs map[uuid.UUID][]string
	roadmapIDs  map[uuid.UUID][]string
}

var _ ArtifactStore = (*Memory)(nil)

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		analyses:    make(map[string]*types.JdAnalysis),
		roadmaps:    make(map[string]*types.Roadmap),
		analysisIDs: make(map[uuid.UUID][]string),
		roadmapIDs:  make(map[uuid.UUID][]string),
	}
}

// InsertAnalysis stores a copy of analysis. The id must be new.
func (m *Memory) InsertAnalysis(_ context.Context, analysis *types.JdAnalysis) error {
	if analysis == nil || analysis.JDID == "" {
		return fmt.Errorf("analysis id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.analyses[analysis.JDID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, analysis.JDID)
	}
	m.analyses[analysis.JDID] = analysis.Clone()
	m.analysisIDs[analysis.Owner] = append(m.analysisIDs[analysis.Owner], analysis.JDID)
	return nil
}

// GetAnalysis returns a copy of the analysis if owner owns it.
func (m *Memory) GetAnalysis(_ context.Context, jdID string, owner uuid.UUID) (*types.JdAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.analyses[jdID]
	if !ok || a.Owner != owner {
		return nil, &types.NotFoundError{Resource: "jd analysis", ID: jdID}
	}
	return a.Clone(), nil
}

// ListAnalyses returns the owner's analyses in insertion order.
func (m *Memory) ListAnalyses(_ context.Context, owner uuid.UUID) ([]types.JdAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.analysisIDs[owner]
	out := make([]types.JdAnalysis, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.analyses[id].Clone())
	}
	return out, nil
}

// InsertRoadmap stores a copy of roadmap. The id must be new.
func (m *Memory) InsertRoadmap(_ context.Context, roadmap *types.Roadmap) error {
	if roadmap == nil || roadmap.RoadmapID == "" {
		return fmt.Errorf("roadmap id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.roadmaps[roadmap.RoadmapID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, roadmap.RoadmapID)
	}
	m.roadmaps[roadmap.RoadmapID] = roadmap.Clone()
	m.roadmapIDs[roadmap.Owner] = append(m.roadmapIDs[roadmap.Owner], roadmap.RoadmapID)
	return nil
}

// GetRoadmap returns a copy of the roadmap if owner owns it.
func (m *Memory) GetRoadmap(_ context.Context, roadmapID string, owner uuid.UUID) (*types.Roadmap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.roadmaps[roadmapID]
	if !ok || r.Owner != owner {
		return nil, &types.NotFoundError{Resource: "roadmap", ID: roadmapID}
	}
	return r.Clone(), nil
}

// ListRoadmaps returns the owner's roadmaps in insertion order.
func (m *Memory) ListRoadmaps(_ context.Context, owner uuid.UUID) ([]types.Roadmap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.roadmapIDs[owner]
	out := make([]types.Roadmap, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.roadmaps[id].Clone())
	}
	return out, nil
}
