package domain

import "time"

// MutationKind names a mutation that invalidates listings.
type MutationKind string

const (
	MutationCreate MutationKind = "created"
	MutationUpdate MutationKind = "updated"
	MutationDelete MutationKind = "deleted"
)

// ContentEvent is published after a successful mutation of a content item.
type ContentEvent struct {
	Kind       Kind         `json:"kind"`
	Mutation   MutationKind `json:"mutation"`
	ItemID     string       `json:"itemId"`
	OccurredAt time.Time    `json:"occurredAt"`
}
