package domain

import (
	"slices"
	"strings"
	"time"
)

// MaxPasswordBytes is bcrypt's input limit; longer passwords are rejected.
const MaxPasswordBytes = 72

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role is a named grant assignable to many users.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Principal is the authenticated identity attached to a single request.
type Principal struct {
	Username     string
	PasswordHash string
	Authorities  []string
}

// HasAuthority reports whether the principal holds any of the given authorities.
func (p *Principal) HasAuthority(authorities ...string) bool {
	if p == nil {
		return false
	}
	for _, a := range authorities {
		if slices.Contains(p.Authorities, a) {
			return true
		}
	}
	return false
}

// Authorities converts role names into the authority set granted to a
// principal: blanks dropped, duplicates removed, sorted.
func Authorities(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// NewPrincipal builds a request principal from the stored user.
func NewPrincipal(u *User) *Principal {
	return &Principal{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Authorities:  Authorities(u.Roles),
	}
}
