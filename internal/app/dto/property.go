package dto

import (
	"vacanza/internal/domain/property"
)

type Property struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Location      string   `json:"location"`
	Capacity      int      `json:"capacity"`
	PricePerNight float64  `json:"price_per_night"`
	CoverImage    string   `json:"cover_image"`
	Images        []string `json:"images"`
	Amenities     []string `json:"amenities"`
	OwnerEmail    string   `json:"owner_email"`
}

func MapProperty(p *property.Property) Property {
	return Property{
		ID:            p.ID,
		Title:         p.Title,
		Location:      p.Location,
		Capacity:      p.Capacity,
		PricePerNight: p.PricePerNight,
		CoverImage:    p.CoverImageURL,
		Images:        p.GalleryURLs,
		Amenities:     p.Amenities,
		OwnerEmail:    p.OwnerEmail,
	}
}

func MapProperties(props []*property.Property) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		out = append(out, MapProperty(p))
	}
	return out
}
