package entity

import (
	"time"

	"interviewhub/core/entity"
)

// User is an account in one of the three roles: CANDIDATE, INTERVIEWER or
// ADMIN.
type User struct {
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         string     `db:"role" json:"role"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	entity.BaseEntity
}

type PaginatedUserEntity = entity.Pagination[User]
