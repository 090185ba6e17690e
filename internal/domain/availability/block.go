package availability

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput      = errors.New("availability: invalid date input")
	ErrInvalidRange      = errors.New("availability: range start is after range end")
	ErrPastDateImmutable = errors.New("availability: past dates cannot be changed")
	ErrForbidden         = errors.New("availability: caller may not manage this property")
	ErrRemoteUnavailable = errors.New("availability: block store unreachable")
)

// ReasonOwnerOccupied is the reason attached to blocks created by the
// owner calendar toggle.
const ReasonOwnerOccupied = "owner_occupied"

// Block marks a single property day as unavailable. At most one block
// exists per (property, date) pair; the store of record enforces this with
// a unique key on property_id + date.
type Block struct {
	ID         string
	PropertyID string
	Date       DateKey
	Reason     string
}

// ListFilter narrows a block listing. Zero value lists everything.
type ListFilter struct {
	PropertyID string
	Sort       string
	Limit      int
}

// BlockStore is the remote collaborator holding blocks of record. Create
// and delete are idempotent on the store side; any failure surfaces as an
// error the engine maps to ErrRemoteUnavailable.
type BlockStore interface {
	ListBlocks(ctx context.Context, filter ListFilter) ([]Block, error)
	CreateBlock(ctx context.Context, propertyID string, date DateKey, reason string) (Block, error)
	DeleteBlock(ctx context.Context, id string) error
}

// HasConflict reports whether any block falls inside the candidate range.
// An empty block set never conflicts.
func HasConflict(blocks []Block, r CandidateRange) bool {
	for _, b := range blocks {
		if r.Contains(b.Date) {
			return true
		}
	}
	return false
}
