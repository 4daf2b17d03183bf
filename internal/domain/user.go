package domain

import "time"

// UserRole enumerates the roles a user can hold.
type UserRole string

const (
	RoleContributor UserRole = "contributor"
	RoleOrganizer   UserRole = "organizer"
	RoleAdmin       UserRole = "admin"
)

// User is an authenticated account.
type User struct {
	ID        string
	GoogleSub string
	Email     string
	Name      string
	AvatarURL string
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserBrief is the denormalized snapshot of a user's public display fields
// embedded into contributions. It is captured at processing time and never
// live-synced afterwards.
type UserBrief struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Brief returns the embeddable projection of the user.
func (u *User) Brief() UserBrief {
	return UserBrief{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

// CanOrganize reports whether the role may manage the race hierarchy.
func (r UserRole) CanOrganize() bool {
	return r == RoleOrganizer || r == RoleAdmin
}
