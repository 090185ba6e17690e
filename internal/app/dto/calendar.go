package dto

import (
	"vacanza/internal/domain/availability"
)

type CalendarBlock struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

type Calendar struct {
	PropertyID string          `json:"property_id"`
	Blocks     []CalendarBlock `json:"blocks"`
}

func MapCalendar(propertyID string, blocks []availability.Block) Calendar {
	out := make([]CalendarBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, MapBlock(b))
	}
	return Calendar{PropertyID: propertyID, Blocks: out}
}

func MapBlock(b availability.Block) CalendarBlock {
	return CalendarBlock{
		ID:         b.ID,
		PropertyID: b.PropertyID,
		Date:       string(b.Date),
		Reason:     b.Reason,
	}
}
