package memory

import (
	"context"
	"sync"

	"vacanza/internal/domain/property"
)

// PropertyStore is an in-memory property collaborator.
type PropertyStore struct {
	mu    sync.RWMutex
	order []string
	items map[string]*property.Property
}

func NewPropertyStore() *PropertyStore {
	return &PropertyStore{items: make(map[string]*property.Property)}
}

func (s *PropertyStore) ByID(ctx context.Context, id string) (*property.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return nil, property.ErrNotFound
	}
	return p, nil
}

func (s *PropertyStore) ListProperties(ctx context.Context, filter property.Filter) ([]*property.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*property.Property, 0, len(s.order))
	for _, id := range s.order {
		p := s.items[id]
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PropertyStore) Save(ctx context.Context, p *property.Property) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.items[p.ID] = p
	return nil
}

var _ property.Store = (*PropertyStore)(nil)
