package model

import (
	"time"
)

const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         string     `db:"name" json:"name"`
	Role         string     `db:"role" json:"role"`
	Verified     bool       `db:"verified" json:"verified"`
	VerifiedAt   *time.Time `db:"verified_at" json:"verifiedAt"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// IsModerator reports whether the user may perform moderation actions.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}
