package availability

import "time"

// Events emitted after a toggle round trip succeeds, for downstream
// calendar sync. Publishing is best effort and never fails the toggle.

type BlockCreated struct {
	BlockID    string    `json:"block_id"`
	PropertyID string    `json:"property_id"`
	Date       DateKey   `json:"date"`
	Reason     string    `json:"reason"`
	At         time.Time `json:"at"`
}

func (BlockCreated) Name() string { return "availability.block.created" }

type BlockRemoved struct {
	BlockID    string    `json:"block_id"`
	PropertyID string    `json:"property_id"`
	Date       DateKey   `json:"date"`
	At         time.Time `json:"at"`
}

func (BlockRemoved) Name() string { return "availability.block.removed" }
