package store

import (
	"context"
	"sync"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

// MemoryStore keeps demo records in a process-local map. The default backend
// and the one tests inject.
type MemoryStore struct {
	mu    sync.RWMutex
	demos map[string]models.Demo
}

// NewMemoryStore creates an empty in-memory demo store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{demos: make(map[string]models.Demo)}
}

func (s *MemoryStore) Create(ctx context.Context, demo *models.Demo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.demos[demo.ID] = cloneDemo(demo)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Demo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	demo, ok := s.demos[id]
	if !ok {
		return nil, &models.NotFoundError{DemoID: id}
	}
	out := cloneDemo(&demo)
	return &out, nil
}

func (s *MemoryStore) Update(ctx context.Context, demo *models.Demo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.demos[demo.ID]; !ok {
		return &models.NotFoundError{DemoID: demo.ID}
	}
	s.demos[demo.ID] = cloneDemo(demo)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// cloneDemo copies the record so callers cannot mutate stored state through
// shared pointers.
func cloneDemo(d *models.Demo) models.Demo {
	out := *d
	out.Capabilities = append([]string(nil), d.Capabilities...)
	out.SampleData = cloneSampleData(d.SampleData)
	if d.ComponentCode != nil {
		code := *d.ComponentCode
		out.ComponentCode = &code
	}
	if d.Enhancement != nil {
		enh := *d.Enhancement
		enh.BusinessValue = append([]string(nil), d.Enhancement.BusinessValue...)
		enh.SampleData = cloneSampleData(d.Enhancement.SampleData)
		out.Enhancement = &enh
	}
	if d.Dependencies != nil {
		deps := *d.Dependencies
		deps.Installed = append([]string(nil), d.Dependencies.Installed...)
		deps.AlreadyInstalled = append([]string(nil), d.Dependencies.AlreadyInstalled...)
		deps.Failed = append([]string(nil), d.Dependencies.Failed...)
		out.Dependencies = &deps
	}
	if d.Deployment != nil {
		dep := *d.Deployment
		out.Deployment = &dep
	}
	return out
}

func cloneSampleData(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the nested maps and slices JSON-shaped sample data is
// made of; scalars are copied by value.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return v
	}
}
