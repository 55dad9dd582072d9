package model

import (
	"time"
)

type Role string
type Status string

const (
	RoleMember    Role = "member"
	RoleAdmin     Role = "admin"
	RoleHeadAdmin Role = "head-admin"

	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleHeadAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role carries admin privileges.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin, RoleHeadAdmin:
		return true
	default:
		return false
	}
}

// Valid reports whether the status is one of the known approval states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

type Member struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	CFHandle       string    `json:"cf_handle"`
	Role           Role      `json:"role"`
	Status         Status    `json:"status"`
	CFRating       *int      `json:"cf_rating,omitempty"`
	CFMaxRating    *int      `json:"cf_max_rating,omitempty"`
	CFRank         *string   `json:"cf_rank,omitempty"`
	CFAvatarURL    *string   `json:"cf_avatar_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
