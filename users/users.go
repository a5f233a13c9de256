package users

import "time"

// RoleType represents a user's role within the sales organisation
type RoleType string

const (
	RoleSalesExecutive RoleType = "sales_executive" // Works prospects and records sales
	RoleTeamLead       RoleType = "team_lead"       // Manages a team of sales executives
	RoleManager        RoleType = "manager"         // Oversees all teams and reporting
)

// ValidRole reports whether r is a role the platform knows about.
func ValidRole(r RoleType) bool {
	switch r {
	case RoleSalesExecutive, RoleTeamLead, RoleManager:
		return true
	}
	return false
}

// User is the profile of an authenticated principal as the API reports it.
// A snapshot of this is cached next to the session token and may be stale
// relative to the server's copy until the next fetch.
type User struct {
	ID          string    `json:"id,omitempty"`          // Unique identifier for the user
	Name        string    `json:"name,omitempty"`        // Display name
	Email       string    `json:"email,omitempty"`       // User's email address
	Role        RoleType  `json:"role,omitempty"`        // Role within the organisation
	ContactNo   string    `json:"contactNo,omitempty"`   // Optional contact number
	Location    string    `json:"location,omitempty"`    // Optional office location
	JoiningDate time.Time `json:"joiningDate,omitempty"` // Date the user joined the organisation
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

func (u *User) IsTeamLead() bool {
	return u.Role == RoleTeamLead
}

// CanViewTeamData reports whether the role sees records beyond its own.
// The server enforces visibility on every endpoint; the client only uses
// this to decide which views to offer.
func (u *User) CanViewTeamData() bool {
	return u.Role == RoleTeamLead || u.Role == RoleManager
}
