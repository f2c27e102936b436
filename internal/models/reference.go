package models

// ReferenceItem is a row of a seed-once classification table (status, type,
// audience, assistance type, stream, role).
type ReferenceItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Proposal status names.
const (
	StatusAccepted  = "Accepted"
	StatusRejected  = "Rejected"
	StatusPending   = "Pending"
	StatusWithdrawn = "Withdrawn"
	StatusBackup    = "Backup"
)

// ProposalTypeMiniconf is the proposal type that marks miniconf organisers.
const ProposalTypeMiniconf = "Miniconf"

// Role names.
const (
	RoleOrganiser       = "organiser"
	RoleTeam            = "team"
	RoleReviewer        = "reviewer"
	RoleProposalsChair  = "proposals_chair"
	RoleLateSubmitter   = "late_submitter"
	RoleMiniconf        = "miniconf"
	RolePress           = "press"
	RoleFundingReviewer = "funding_reviewer"
)
