package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	kbs        map[string]KnowledgeBase
	labyrinths map[string]Labyrinth
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{}
	m.reset()
	return m
}

func (m *MemoryStore) reset() {
	m.kbs = make(map[string]KnowledgeBase)
	m.labyrinths = make(map[string]Labyrinth)
}

// Init does nothing; the maps are ready on construction.
func (m *MemoryStore) Init(ctx context.Context) error { return nil }

// Clear drops all records.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	return nil
}

// CreateKnowledgeBase stores kb, assigning an ID if it has none.
func (m *MemoryStore) CreateKnowledgeBase(ctx context.Context, kb *KnowledgeBase) error {
	prepare(&kb.ID, &kb.CreatedAt)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kbs[kb.ID] = *kb
	return nil
}

// GetKnowledgeBase looks up a knowledge base.
func (m *MemoryStore) GetKnowledgeBase(ctx context.Context, id string) (*KnowledgeBase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	kb, ok := m.kbs[id]
	if !ok {
		return nil, notFound("knowledge base", id)
	}
	return &kb, nil
}

// SaveLabyrinth stores l, assigning an ID if it has none.
func (m *MemoryStore) SaveLabyrinth(ctx context.Context, l *Labyrinth) error {
	prepare(&l.ID, &l.CreatedAt)
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := *l
	rec.Maze = append([]byte(nil), l.Maze...)
	m.labyrinths[l.ID] = rec
	return nil
}

// GetLabyrinth looks up a labyrinth.
func (m *MemoryStore) GetLabyrinth(ctx context.Context, id string) (*Labyrinth, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.labyrinths[id]
	if !ok {
		return nil, notFound("labyrinth", id)
	}
	return &l, nil
}

// ListLabyrinths returns records newest first.
func (m *MemoryStore) ListLabyrinths(ctx context.Context, opts ListOptions) ([]Labyrinth, error) {
	m.mu.RLock()
	out := make([]Labyrinth, 0, len(m.labyrinths))
	for _, l := range m.labyrinths {
		if opts.KnowledgeBaseID != "" && l.KnowledgeBaseID != opts.KnowledgeBaseID {
			continue
		}
		out = append(out, l)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if n := opts.limit(); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Close does nothing.
func (m *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
