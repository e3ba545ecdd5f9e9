package store

import (
	"container/list"
	"context"
	"sync"

	"github.com/LawrenceCirillo/Alan/pkg/api"
)

type (
	// MemoryStore keeps the most recently written blueprints in process,
	// evicting the least recently used once full
	MemoryStore struct {
		entries map[api.WorkflowID]*list.Element
		lru     *list.List
		maxSize int
		mu      sync.Mutex
	}

	memoryEntry struct {
		id   api.WorkflowID
		data []byte
	}
)

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore holding at most maxSize blueprints
func NewMemoryStore(maxSize int) *MemoryStore {
	return &MemoryStore{
		entries: map[api.WorkflowID]*list.Element{},
		lru:     list.New(),
		maxSize: max(maxSize, 1),
	}
}

func (s *MemoryStore) Put(_ context.Context, bp *api.WorkflowBlueprint) error {
	data, err := encode(bp)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[bp.WorkflowID]; ok {
		elem.Value.(*memoryEntry).data = data
		s.lru.MoveToFront(elem)
		return nil
	}

	entry := &memoryEntry{id: bp.WorkflowID, data: data}
	s.entries[bp.WorkflowID] = s.lru.PushFront(entry)

	if s.lru.Len() > s.maxSize {
		s.evictLast()
	}
	return nil
}

func (s *MemoryStore) Get(
	_ context.Context, id api.WorkflowID,
) (*api.WorkflowBlueprint, error) {
	s.mu.Lock()
	elem, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	s.lru.MoveToFront(elem)
	data := elem.Value.(*memoryEntry).data
	s.mu.Unlock()

	return decode(data)
}

// Len returns the number of blueprints held
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) evictLast() {
	back := s.lru.Back()
	if back != nil {
		s.lru.Remove(back)
		delete(s.entries, back.Value.(*memoryEntry).id)
	}
}
