package sso

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/admin-sso/gateway/pkg/events"
)

// Provisioner finds or creates the local account for a verified identity.
// Provisioning is idempotent: repeated calls for the same email, in any
// letter casing, converge on one account.
type Provisioner struct {
	store UserStore
	bus   events.Bus
}

func NewProvisioner(store UserStore, bus events.Bus) *Provisioner {
	return &Provisioner{store: store, bus: bus}
}

// Provision returns the resolved account and whether it was newly created.
// Existing accounts come back unchanged; attribute drift from the IdP is
// never applied.
func (p *Provisioner) Provision(ctx context.Context, email, familyName, givenName, locale string, roles []RoleRef) (*User, bool, error) {
	// Differently cased spellings of one address must collapse to one
	// account, so an address with uppercase letters is first looked up in
	// its lowercased form.
	if hasUppercase(email) {
		user, err := p.store.FindByEmail(ctx, strings.ToLower(email))
		if err == nil {
			return user, false, nil
		}
		if !errors.Is(err, ErrUserNotFound) {
			return nil, false, fmt.Errorf("unable to look up user: %w", err)
		}
	}

	user, err := p.store.FindByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, fmt.Errorf("unable to look up user: %w", err)
	}

	created := &User{
		Firstname:         defaultString(givenName, "unset"),
		Lastname:          familyName,
		Email:             strings.ToLower(email),
		Roles:             roles,
		PreferredLanguage: locale,
		Password:          GeneratePassword(),
	}

	if err := p.store.Create(ctx, created); err != nil {
		if errors.Is(err, ErrUserExists) {
			// a concurrent sign-in won the race; use its account
			existing, findErr := p.store.FindByEmail(ctx, strings.ToLower(email))
			if findErr != nil {
				return nil, false, fmt.Errorf("unable to look up user after create conflict: %w", findErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("unable to create user: %w", err)
	}

	registered, err := p.store.Register(ctx, created.ID)
	if err != nil {
		return nil, false, fmt.Errorf("unable to register user: %w", err)
	}

	p.bus.Emit(ctx, events.EntryCreate, registered)

	return registered, true, nil
}

func hasUppercase(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
