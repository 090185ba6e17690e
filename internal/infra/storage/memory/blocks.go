package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"vacanza/internal/domain/availability"
)

// BlockStore is an in-memory block store of record, used by tests and
// demo runs. It enforces the one-block-per-(property, date) invariant the
// same way the mongo store does with its unique index: create is an
// idempotent upsert on that key, delete by id is idempotent.
type BlockStore struct {
	mu     sync.RWMutex
	blocks []availability.Block
	byKey  map[string]int
}

func NewBlockStore() *BlockStore {
	return &BlockStore{byKey: make(map[string]int)}
}

func blockKey(propertyID string, date availability.DateKey) string {
	return propertyID + "|" + string(date)
}

func (s *BlockStore) ListBlocks(ctx context.Context, filter availability.ListFilter) ([]availability.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]availability.Block, 0, len(s.blocks))
	for _, b := range s.blocks {
		if filter.PropertyID != "" && b.PropertyID != filter.PropertyID {
			continue
		}
		out = append(out, b)
	}
	switch filter.Sort {
	case "date":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	case "-date":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *BlockStore) CreateBlock(ctx context.Context, propertyID string, date availability.DateKey, reason string) (availability.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := blockKey(propertyID, date)
	if idx, ok := s.byKey[key]; ok {
		return s.blocks[idx], nil
	}
	b := availability.Block{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		Date:       date,
		Reason:     reason,
	}
	s.byKey[key] = len(s.blocks)
	s.blocks = append(s.blocks, b)
	return b, nil
}

func (s *BlockStore) DeleteBlock(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.blocks {
		if b.ID == id {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			s.reindex()
			return nil
		}
	}
	// Deleting a block that is already gone is a no-op.
	return nil
}

func (s *BlockStore) reindex() {
	s.byKey = make(map[string]int, len(s.blocks))
	for i, b := range s.blocks {
		s.byKey[blockKey(b.PropertyID, b.Date)] = i
	}
}

var _ availability.BlockStore = (*BlockStore)(nil)
