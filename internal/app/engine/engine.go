// Package engine implements the availability engine: a local cache of
// blocked dates kept consistent with a remote block store, the owner
// toggle state machine, and the range conflict checks used by search.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vacanza/internal/domain/auth"
	"vacanza/internal/domain/availability"
	"vacanza/internal/domain/property"
)

// Deps are the engine's collaborators, passed explicitly so that every
// instance is independent and deterministic under test. Now defaults to
// time.Now.
type Deps struct {
	Blocks     availability.BlockStore
	Properties property.Store
	Auth       auth.Context
	Now        func() time.Time
	Logger     *slog.Logger
}

// Engine holds the last-loaded block set for one caller context. Reads
// are views over that cache; Load and Toggle are the only operations that
// reach the remote store. The cache is guarded so a single instance can
// back multiple request handlers, but toggle's lookup-then-mutate is not
// atomic across instances: the store of record owns the uniqueness
// invariant.
type Engine struct {
	deps Deps

	mu     sync.RWMutex
	blocks []availability.Block
	loaded bool
}

func New(deps Deps) *Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Engine{deps: deps}
}

// Load fetches blocks from the remote store and replaces the cache
// wholesale. An empty propertyID loads blocks for all properties. On
// failure the previous cache is preserved unchanged: stale but consistent,
// never partially overwritten.
func (e *Engine) Load(ctx context.Context, propertyID string) ([]availability.Block, error) {
	fetched, err := e.deps.Blocks.ListBlocks(ctx, availability.ListFilter{PropertyID: propertyID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", availability.ErrRemoteUnavailable, err)
	}
	e.mu.Lock()
	e.blocks = append([]availability.Block(nil), fetched...)
	e.loaded = true
	e.mu.Unlock()
	return append([]availability.Block(nil), fetched...), nil
}

// BlocksFor returns the cached blocks for one property in arrival order.
func (e *Engine) BlocksFor(propertyID string) []availability.Block {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []availability.Block
	for _, b := range e.blocks {
		if b.PropertyID == propertyID {
			out = append(out, b)
		}
	}
	return out
}

// Loaded reports whether a Load has completed since construction.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// IsBlocked reports whether the property has a cached block on the given
// day. Calendar rendering calls this per cell.
func (e *Engine) IsBlocked(propertyID string, date time.Time) bool {
	key, err := availability.NewDateKey(date)
	if err != nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.find(propertyID, key)
	return ok
}

// ToggleResult describes the state a toggle landed in.
type ToggleResult struct {
	Blocked bool
	Block   availability.Block
}

// Toggle flips one property day between Available and Blocked. Past days
// are immutable and rejected before any remote call. Only the property's
// owner or an admin may toggle. The cache mutates only after the remote
// store confirms, so a failed round trip leaves the visible state exactly
// as it was.
func (e *Engine) Toggle(ctx context.Context, propertyID string, date time.Time) (ToggleResult, error) {
	key, err := availability.NewDateKey(date)
	if err != nil {
		return ToggleResult{}, err
	}
	today, err := availability.NewDateKey(e.deps.Now())
	if err != nil {
		return ToggleResult{}, err
	}
	if key.Before(today) {
		return ToggleResult{}, availability.ErrPastDateImmutable
	}
	if err := e.authorize(ctx, propertyID); err != nil {
		return ToggleResult{}, err
	}

	e.mu.RLock()
	existing, found := e.find(propertyID, key)
	e.mu.RUnlock()

	if found {
		if err := e.deps.Blocks.DeleteBlock(ctx, existing.ID); err != nil {
			return ToggleResult{}, fmt.Errorf("%w: %v", availability.ErrRemoteUnavailable, err)
		}
		e.mu.Lock()
		e.remove(existing.ID)
		e.mu.Unlock()
		e.deps.Logger.Info("block removed", "property_id", propertyID, "date", key)
		return ToggleResult{Blocked: false, Block: existing}, nil
	}

	created, err := e.deps.Blocks.CreateBlock(ctx, propertyID, key, availability.ReasonOwnerOccupied)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("%w: %v", availability.ErrRemoteUnavailable, err)
	}
	// Re-normalize from the input rather than trusting the remote echo,
	// which may come back with a time component attached.
	created.PropertyID = propertyID
	created.Date = key
	e.mu.Lock()
	e.blocks = append(e.blocks, created)
	e.mu.Unlock()
	e.deps.Logger.Info("block created", "property_id", propertyID, "date", key)
	return ToggleResult{Blocked: true, Block: created}, nil
}

// HasConflict reports whether any cached block for the property falls
// inside the candidate range. An unloaded cache reads as no blocks known;
// callers needing a correctness guarantee must Load first.
func (e *Engine) HasConflict(propertyID string, r availability.CandidateRange) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, b := range e.blocks {
		if b.PropertyID == propertyID && r.Contains(b.Date) {
			return true
		}
	}
	return false
}

// FilterAvailable keeps the properties with no block inside the range,
// preserving input order.
func (e *Engine) FilterAvailable(props []*property.Property, r availability.CandidateRange) []*property.Property {
	out := make([]*property.Property, 0, len(props))
	for _, p := range props {
		if !e.HasConflict(p.ID, r) {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) authorize(ctx context.Context, propertyID string) error {
	if e.deps.Auth == nil {
		return availability.ErrForbidden
	}
	principal, ok := e.deps.Auth.CurrentUser(ctx)
	if !ok {
		return availability.ErrForbidden
	}
	if principal.IsAdmin() {
		return nil
	}
	prop, err := e.deps.Properties.ByID(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("%w: %v", availability.ErrRemoteUnavailable, err)
	}
	if !auth.CanManage(principal, prop.OwnerEmail) {
		return availability.ErrForbidden
	}
	return nil
}

// find and remove assume the caller holds the appropriate lock.

func (e *Engine) find(propertyID string, key availability.DateKey) (availability.Block, bool) {
	for _, b := range e.blocks {
		if b.PropertyID == propertyID && b.Date == key {
			return b, true
		}
	}
	return availability.Block{}, false
}

func (e *Engine) remove(id string) {
	kept := e.blocks[:0]
	for _, b := range e.blocks {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	e.blocks = kept
}
