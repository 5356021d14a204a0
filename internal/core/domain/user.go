package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the sole determinant of what a signed-in user may do.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleFocalPerson Role = "focal_person"
	RoleViewer      Role = "viewer"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrVersionConflict    = errors.New("record was modified concurrently")
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFocalPerson, RoleViewer:
		return true
	}
	return false
}

// User models a roster entry.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name" bson:"name"`
	Role         Role      `json:"role" bson:"role"`
	Avatar       string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Department   string    `json:"department,omitempty" bson:"department,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty"`
	JoinedAt     time.Time `json:"joined_at" bson:"joined_at"`
	Version      int64     `json:"version" bson:"version"`
}

// Clone returns a shallow copy; User holds no reference types.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Validate checks the fields every roster entry must carry.
func (u *User) Validate() error {
	switch {
	case strings.TrimSpace(u.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidUser)
	case strings.TrimSpace(u.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidUser)
	case !strings.Contains(u.Email, "@"):
		return fmt.Errorf("%w: email must be a valid address", ErrInvalidUser)
	case !u.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, u.Role)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email so it can be used as a lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserFilter narrows a roster listing. Empty or "all" disables a criterion.
type UserFilter struct {
	Search string
	Role   string
}

// FilterUsers returns the users matching f, preserving input order.
func FilterUsers(users []*User, f UserFilter) []*User {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*User, 0, len(users))
	for _, u := range users {
		if term != "" &&
			!strings.Contains(strings.ToLower(u.Name), term) &&
			!strings.Contains(strings.ToLower(u.Email), term) {
			continue
		}
		if !matchesOption(f.Role, string(u.Role)) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// RosterStats tallies the roster by role.
type RosterStats struct {
	Total        int `json:"total"`
	Admins       int `json:"admins"`
	FocalPersons int `json:"focal_persons"`
	Viewers      int `json:"viewers"`
}

func ComputeRosterStats(users []*User) RosterStats {
	s := RosterStats{Total: len(users)}
	for _, u := range users {
		switch u.Role {
		case RoleAdmin:
			s.Admins++
		case RoleFocalPerson:
			s.FocalPersons++
		case RoleViewer:
			s.Viewers++
		}
	}
	return s
}
