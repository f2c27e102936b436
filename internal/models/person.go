package models

import "time"

// Person holds account login details and personal information.
type Person struct {
	ID                int       `json:"id"`
	EmailAddress      string    `json:"email_address"`
	PasswordHash      *string   `json:"-"`
	CreationTimestamp time.Time `json:"creation_timestamp"`
	URLHash           string    `json:"-"`
	Activated         bool      `json:"activated"`
	Firstname         *string   `json:"firstname,omitempty"`
	Lastname          *string   `json:"lastname,omitempty"`
	Address1          *string   `json:"address1,omitempty"`
	Address2          *string   `json:"address2,omitempty"`
	City              *string   `json:"city,omitempty"`
	State             *string   `json:"state,omitempty"`
	Postcode          *string   `json:"postcode,omitempty"`
	Country           *string   `json:"country,omitempty"`
	Company           *string   `json:"company,omitempty"`
	Phone             *string   `json:"phone,omitempty"`
	Mobile            *string   `json:"mobile,omitempty"`
	URL               *string   `json:"url,omitempty"`
	Experience        *string   `json:"experience,omitempty"`
	Bio               *string   `json:"bio,omitempty"`
	BadgePrinted      *bool     `json:"badge_printed,omitempty"`
}
