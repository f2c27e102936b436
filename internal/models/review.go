package models

import "time"

// Review is one reviewer's assessment of a proposal.
type Review struct {
	ID                        int       `json:"id"`
	ProposalID                int       `json:"proposal_id"`
	ReviewerID                int       `json:"reviewer_id"`
	Score                     *int      `json:"score,omitempty"`
	StreamID                  *int      `json:"stream_id,omitempty"`
	Miniconf                  *string   `json:"miniconf,omitempty"`
	Comment                   *string   `json:"comment,omitempty"`
	PrivateComment            *string   `json:"private_comment,omitempty"`
	CreationTimestamp         time.Time `json:"creation_timestamp"`
	LastModificationTimestamp time.Time `json:"last_modification_timestamp"`
}
