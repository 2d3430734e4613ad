package models

import "time"

type UserRole string

const (
	UserRoleForester   UserRole = "forester"
	UserRoleSupervisor UserRole = "supervisor"
	UserRoleAnalyst    UserRole = "analyst"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleForester, UserRoleSupervisor, UserRoleAnalyst:
		return true
	}
	return false
}

// User mirrors the persisted account record. Password holds an argon2id
// string for accounts created here, or plaintext for records carried over
// from older stores.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"password"`
	Role           UserRole  `json:"role"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`

	Phone      string `json:"phone,omitempty"`
	Location   string `json:"location,omitempty"`
	Bio        string `json:"bio,omitempty"`
	LookingFor string `json:"lookingFor,omitempty"`
	JoinDate   string `json:"joinDate,omitempty"`
}

type ProfilePatch struct {
	Name           *string
	Email          *string
	Role           *UserRole
	ProfilePicture *string
	Phone          *string
	Location       *string
	Bio            *string
	LookingFor     *string
	JoinDate       *string
}
