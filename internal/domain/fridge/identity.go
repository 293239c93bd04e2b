package fridge

import (
	"context"
	"strings"

	"fridge-app-go/internal/repository/documents"
	"golang.org/x/sync/singleflight"
)

const defaultUserName = "Me"

type IdentityConfig struct {
	DefaultName string
	// AutoProvision creates a default identity when none is stored.
	AutoProvision bool
}

func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{DefaultName: defaultUserName, AutoProvision: true}
}

// IdentityProvider owns the current-user singleton and the profile registry.
type IdentityProvider struct {
	profiles *documents.Collection[User]
	current  *documents.Singleton[User]
	cfg      IdentityConfig
	flight   singleflight.Group
}

func NewIdentityProvider(repo *documents.Repository, cfg IdentityConfig) *IdentityProvider {
	if strings.TrimSpace(cfg.DefaultName) == "" {
		cfg.DefaultName = defaultUserName
	}
	return &IdentityProvider{
		profiles: documents.NewCollection[User](repo, KeyUserProfiles),
		current:  documents.NewSingleton[User](repo, KeyCurrentUser),
		cfg:      cfg,
	}
}

func (p *IdentityProvider) GetCurrentUser(ctx context.Context) (*User, error) {
	user, err := p.loadCurrent(ctx)
	if err != nil || user != nil {
		return user, err
	}
	if !p.cfg.AutoProvision {
		return nil, ErrNoCurrentUser
	}

	v, err, _ := p.flight.Do(KeyCurrentUser, func() (any, error) {
		return p.provision(ctx)
	})
	if err != nil {
		return nil, err
	}
	provisioned := *v.(*User)
	return &provisioned, nil
}

// SetCurrentUser registers user and makes it the current identity.
func (p *IdentityProvider) SetCurrentUser(ctx context.Context, user User) (*User, error) {
	user.Name = strings.TrimSpace(user.Name)
	if err := p.AddUserProfile(ctx, user); err != nil {
		return nil, err
	}
	if err := p.current.Save(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserProfile returns nil when the user is unknown.
func (p *IdentityProvider) GetUserProfile(ctx context.Context, userID int) (*User, error) {
	profiles, err := p.profiles.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].ID == userID {
			return &profiles[i], nil
		}
	}
	return nil, nil
}

func (p *IdentityProvider) ListProfiles(ctx context.Context) ([]User, error) {
	return p.profiles.Load(ctx)
}

// AddUserProfile replaces the profile with the same id or appends it.
func (p *IdentityProvider) AddUserProfile(ctx context.Context, user User) error {
	user.Name = strings.TrimSpace(user.Name)
	if user.ID <= 0 || user.Name == "" {
		return ErrInvalidUser
	}

	_, err := p.profiles.Update(ctx, func(profiles []User) ([]User, error) {
		for i := range profiles {
			if profiles[i].ID == user.ID {
				profiles[i] = user
				return profiles, nil
			}
		}
		return append(profiles, user), nil
	})
	return err
}

func (p *IdentityProvider) loadCurrent(ctx context.Context) (*User, error) {
	user, err := p.current.Load(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if user.ID <= 0 {
		return nil, ErrNoCurrentUser
	}
	return user, nil
}

func (p *IdentityProvider) provision(ctx context.Context) (*User, error) {
	// A caller that lost the race may arrive after the flight finished.
	existing, err := p.loadCurrent(ctx)
	if err != nil || existing != nil {
		return existing, err
	}

	var user User
	_, err = p.profiles.Update(ctx, func(profiles []User) ([]User, error) {
		next := 0
		for _, profile := range profiles {
			if profile.ID > next {
				next = profile.ID
			}
		}
		user = User{ID: next + 1, Name: p.cfg.DefaultName}
		return append(profiles, user), nil
	})
	if err != nil {
		return nil, err
	}

	if err := p.current.Save(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}
