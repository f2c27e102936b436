package models

import "time"

// Event is a programme slot, optionally backed by an accepted proposal.
type Event struct {
	ID                        int       `json:"id"`
	ProposalID                *int      `json:"proposal_id,omitempty"`
	Title                     *string   `json:"title,omitempty"`
	CreationTimestamp         time.Time `json:"creation_timestamp"`
	LastModificationTimestamp time.Time `json:"last_modification_timestamp"`
}
