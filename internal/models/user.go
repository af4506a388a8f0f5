package models

import "time"

// UserRole represents the stored role of a user. The effective role may
// differ: a parent assigned to a class roster acts as a teacher.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleParent  UserRole = "parent"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleParent:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
// New users are provisioned with the parent role on first sign-in and
// promoted to teacher when a class roster references their email.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	DisplayName  string     `db:"display_name" json:"display_name"`
	Role         UserRole   `db:"role" json:"role"`
	PhotoURL     *string    `db:"photo_url" json:"photo_url,omitempty"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Principal is the read-only identity snapshot the engine computes with.
type Principal struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	StoredRole  UserRole `json:"stored_role"`
}

// Principal derives the engine-facing snapshot from a stored user.
func (u *User) Principal() Principal {
	return Principal{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		StoredRole:  u.Role,
	}
}
