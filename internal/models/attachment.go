package models

import "time"

// Attachment is a file uploaded alongside a proposal. The body lives in
// object storage under StorageKey.
type Attachment struct {
	ID                        int       `json:"id"`
	ProposalID                int       `json:"proposal_id"`
	Filename                  string    `json:"filename"`
	ContentType               string    `json:"content_type"`
	StorageKey                string    `json:"-"`
	CreationTimestamp         time.Time `json:"creation_timestamp"`
	LastModificationTimestamp time.Time `json:"last_modification_timestamp"`
}
