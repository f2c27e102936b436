package models

import "time"

// Registration anchors a person's conference registration.
type Registration struct {
	ID                        int       `json:"id"`
	PersonID                  int       `json:"person_id"`
	CreationTimestamp         time.Time `json:"creation_timestamp"`
	LastModificationTimestamp time.Time `json:"last_modification_timestamp"`
}

// RegoNote is an organiser's note against a registration.
type RegoNote struct {
	ID                        int       `json:"id"`
	RegoID                    *int      `json:"rego_id,omitempty"`
	Note                      *string   `json:"note,omitempty"`
	ByID                      int       `json:"by_id"`
	CreationTimestamp         time.Time `json:"creation_timestamp"`
	LastModificationTimestamp time.Time `json:"last_modification_timestamp"`
}

// Volunteer records a person's offer to help and whether it was accepted.
// Accepted is nil until an organiser decides.
type Volunteer struct {
	ID                        int       `json:"id"`
	PersonID                  int       `json:"person_id"`
	Areas                     []string  `json:"areas"`
	Other                     string    `json:"other"`
	Accepted                  *bool     `json:"accepted,omitempty"`
	CreationTimestamp         time.Time `json:"creation_timestamp"`
	LastModificationTimestamp time.Time `json:"last_modification_timestamp"`
}
