package sso

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists signals that the store's case-insensitive uniqueness
	// constraint on email rejected a create. Provisioning treats it as
	// "someone else won the race" and re-reads instead of failing.
	ErrUserExists = errors.New("user already exists")
)

// RoleRef points at a role record owned by the admin framework.
type RoleRef struct {
	ID string `json:"id"`
}

// User is the local admin account. The password never serializes; the
// sign-in success notification and the success page both carry the user as
// JSON.
type User struct {
	ID                string    `json:"id"`
	Firstname         string    `json:"firstname"`
	Lastname          string    `json:"lastname"`
	Email             string    `json:"email"`
	Roles             []RoleRef `json:"roles"`
	PreferredLanguage string    `json:"preferedLanguage"`
	Password          string    `json:"-"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
}

// UserStore is the user-storage collaborator. The admin framework owns the
// records; the gateway only looks up, creates and registers.
type UserStore interface {
	// FindByEmail matches the stored email exactly.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Create persists a new pending account in one atomic call and
	// enforces case-insensitive email uniqueness.
	Create(ctx context.Context, user *User) error
	// Register transitions a pending account to active.
	Register(ctx context.Context, id string) (*User, error)
}
