package domain

import "time"

// ManualRegistrationID is the sentinel stored in GoogleID for users who
// registered without an OAuth provider.
const ManualRegistrationID = "manual-registration"

// User is the domain model for attendees. Email is the natural key; a user is
// created once on first identity resolution and never mutated by this service.
type User struct {
	ID        string
	Name      string
	Email     string
	GoogleID  string
	CreatedAt time.Time
}
