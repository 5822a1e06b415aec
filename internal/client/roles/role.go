// Package roles turns the session record into the caller's role and the
// capability flags screens use to decide what to show.
package roles

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/residentportal/internal/client/session"
)

type Role int

const (
	Unknown Role = iota
	User
	Admin
)

func (r Role) String() string {
	switch r {
	case Admin:
		return "admin"
	case User:
		return "user"
	default:
		return "unknown"
	}
}

// ParseRole matches case-insensitively and exactly: surrounding whitespace
// is not stripped. ok is false for anything that is not a recognized role.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(s) {
	case "admin":
		return Admin, true
	case "user":
		return User, true
	default:
		return Unknown, false
	}
}

type Capabilities struct {
	IsAdmin bool
	IsUser  bool
}

func (r Role) Capabilities() Capabilities {
	return Capabilities{IsAdmin: r == Admin, IsUser: r == User}
}

// Identity is what the resolver derives from one read of the session.
type Identity struct {
	Authenticated bool
	Role          Role
	Name          string
	Email         string
}

func (i Identity) Capabilities() Capabilities {
	if !i.Authenticated {
		return Capabilities{}
	}
	return i.Role.Capabilities()
}

func FromRecord(rec session.Record) Identity {
	if !rec.Authenticated() {
		return Identity{}
	}
	role, _ := ParseRole(rec.UserData.RoleClaim())
	return Identity{
		Authenticated: true,
		Role:          role,
		Name:          rec.UserData.Name(),
		Email:         rec.UserData.Email(),
	}
}

// Resolver reads the store on every call so it never serves a stale role.
type Resolver struct {
	store session.Store
}

func NewResolver(store session.Store) *Resolver {
	return &Resolver{store: store}
}

// Identity returns the zero Identity together with any load error.
func (r *Resolver) Identity(ctx context.Context) (Identity, error) {
	rec, err := r.store.Load(ctx)
	if err != nil {
		return Identity{}, err
	}
	return FromRecord(rec), nil
}

// Capabilities reports no capabilities when the session cannot be read.
func (r *Resolver) Capabilities(ctx context.Context) Capabilities {
	id, err := r.Identity(ctx)
	if err != nil {
		return Capabilities{}
	}
	return id.Capabilities()
}
