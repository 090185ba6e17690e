package property

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrTitleRequired    = errors.New("property: title is required")
	ErrLocationRequired = errors.New("property: location is required")
	ErrOwnerRequired    = errors.New("property: owner email is required")
	ErrCapacity         = errors.New("property: capacity must be at least 1")
	ErrNightlyPrice     = errors.New("property: price per night must be non-negative")
	ErrNotFound         = errors.New("property: not found")
)

// Property is an owner-managed listing. Read-only to everyone but its
// owner; never deleted in this system.
type Property struct {
	ID            string
	Title         string
	Location      string
	Capacity      int
	PricePerNight float64
	CoverImageURL string
	GalleryURLs   []string
	Amenities     []string
	OwnerEmail    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateParams struct {
	ID            string
	Title         string
	Location      string
	Capacity      int
	PricePerNight float64
	CoverImageURL string
	GalleryURLs   []string
	Amenities     []string
	OwnerEmail    string
	Now           time.Time
}

func New(params CreateParams) (*Property, error) {
	p := &Property{
		ID:            params.ID,
		Title:         strings.TrimSpace(params.Title),
		Location:      strings.TrimSpace(params.Location),
		Capacity:      params.Capacity,
		PricePerNight: params.PricePerNight,
		CoverImageURL: params.CoverImageURL,
		GalleryURLs:   append([]string(nil), params.GalleryURLs...),
		Amenities:     append([]string(nil), params.Amenities...),
		OwnerEmail:    strings.ToLower(strings.TrimSpace(params.OwnerEmail)),
		CreatedAt:     params.Now.UTC(),
		UpdatedAt:     params.Now.UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Property) Validate() error {
	if p.Title == "" {
		return ErrTitleRequired
	}
	if p.Location == "" {
		return ErrLocationRequired
	}
	if p.OwnerEmail == "" {
		return ErrOwnerRequired
	}
	if p.Capacity < 1 {
		return ErrCapacity
	}
	if p.PricePerNight < 0 {
		return ErrNightlyPrice
	}
	return nil
}

// OwnedBy matches the owner email case-insensitively.
func (p *Property) OwnedBy(email string) bool {
	return p.OwnerEmail != "" && strings.EqualFold(p.OwnerEmail, email)
}

// Filter narrows a property listing. Location is a case-insensitive
// substring match; MinCapacity keeps properties that sleep at least that
// many guests.
type Filter struct {
	Location    string
	MinCapacity int
	OwnerEmail  string
}

func (f Filter) Matches(p *Property) bool {
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.MinCapacity > 0 && p.Capacity < f.MinCapacity {
		return false
	}
	if f.OwnerEmail != "" && !p.OwnedBy(f.OwnerEmail) {
		return false
	}
	return true
}

// Store is the remote property collaborator. The engine only reads from
// it; Save exists for the owner dashboard and fixture seeding.
type Store interface {
	ByID(ctx context.Context, id string) (*Property, error)
	ListProperties(ctx context.Context, filter Filter) ([]*Property, error)
	Save(ctx context.Context, p *Property) error
}
