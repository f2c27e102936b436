package models

import "time"

// Proposal is a submitted talk, tutorial, miniconf or poster.
type Proposal struct {
	ID                            int       `json:"id"`
	Title                         *string   `json:"title,omitempty"`
	Abstract                      *string   `json:"abstract,omitempty"`
	TechnicalRequirements         *string   `json:"technical_requirements,omitempty"`
	ProposalTypeID                int       `json:"proposal_type_id"`
	StreamID                      *int      `json:"stream_id,omitempty"`
	TravelAssistanceTypeID        int       `json:"travel_assistance_type_id"`
	AccommodationAssistanceTypeID int       `json:"accommodation_assistance_type_id"`
	StatusID                      int       `json:"status_id"`
	TargetAudienceID              int       `json:"target_audience_id"`
	VideoRelease                  *bool     `json:"video_release,omitempty"`
	SlidesRelease                 *bool     `json:"slides_release,omitempty"`
	Project                       *string   `json:"project,omitempty"`
	URL                           *string   `json:"url,omitempty"`
	AbstractVideoURL              *string   `json:"abstract_video_url,omitempty"`
	CreationTimestamp             time.Time `json:"creation_timestamp"`
	LastModificationTimestamp     time.Time `json:"last_modification_timestamp"`

	// Joined from proposal_type and proposal_status.
	TypeName   string `json:"type_name"`
	StatusName string `json:"status_name"`
}

// Accepted reports whether the proposal carries the Accepted status.
func (p *Proposal) Accepted() bool {
	return p.StatusName == StatusAccepted
}

// Withdrawn reports whether the presenter withdrew the proposal.
func (p *Proposal) Withdrawn() bool {
	return p.StatusName == StatusWithdrawn
}

// Miniconf reports whether the proposal is a miniconf.
func (p *Proposal) Miniconf() bool {
	return p.TypeName == ProposalTypeMiniconf
}
