package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/domain/user"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
)

type Service struct {
	auth  ports.AuthGateway
	store *Store
}

func NewService(auth ports.AuthGateway, store *Store) *Service {
	return &Service{auth: auth, store: store}
}

type Status struct {
	LoggedIn  bool       `json:"logged_in" yaml:"logged_in"`
	User      *user.User `json:"user,omitempty" yaml:"user,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

func (s *Service) Login(ctx context.Context, email string, password string) (user.User, error) {
	if ctx == nil {
		return user.User{}, errors.New("context is required")
	}
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		return user.User{}, ErrEmailRequired
	case password == "":
		return user.User{}, ErrPasswordRequired
	}

	token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return user.User{}, errs.Wrap(err, "login")
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return user.User{}, fmt.Errorf("%w: login response has no access token", ports.ErrMalformedResponse)
	}

	expiresAt, err := s.store.Save(ctx, token.AccessToken, token.User)
	if err != nil {
		return user.User{}, errs.Wrap(err, "save session")
	}

	profile := token.User
	if profile == nil {
		current, err := s.auth.CurrentUser(ctx)
		if err != nil {
			return user.User{}, errs.Wrap(err, "load profile after login")
		}
		if err := s.store.SaveProfile(ctx, current); err != nil {
			return user.User{}, err
		}
		profile = &current
	}

	logging.Info(
		logging.WithComponent(ctx, "usecase.session"),
		"logged in",
		slog.Int64("user_id", profile.ID),
		slog.Time("expires_at", expiresAt),
	)
	return *profile, nil
}

// Logout tells the server best-effort and always clears the local session.
func (s *Service) Logout(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if _, err := s.store.AccessToken(ctx); errors.Is(err, ports.ErrNotAuthenticated) {
		return nil
	}

	if err := s.auth.Logout(ctx); err != nil {
		logging.Warn(logging.WithComponent(ctx, "usecase.session"), "server logout failed, clearing local session", slog.Any("err", errs.Loggable(err)))
	}
	return s.store.Invalidate(ctx)
}

// Current fetches the profile from the server and refreshes the cached copy.
func (s *Service) Current(ctx context.Context) (user.User, error) {
	if ctx == nil {
		return user.User{}, errors.New("context is required")
	}
	if _, err := s.store.AccessToken(ctx); err != nil {
		return user.User{}, err
	}

	profile, err := s.auth.CurrentUser(ctx)
	if err != nil {
		return user.User{}, err
	}
	if err := s.store.SaveProfile(ctx, profile); err != nil && !errors.Is(err, ports.ErrNotAuthenticated) {
		return user.User{}, err
	}
	return profile, nil
}

// Status reports the local session without a network call.
func (s *Service) Status(ctx context.Context) (Status, error) {
	if ctx == nil {
		return Status{}, errors.New("context is required")
	}
	if _, err := s.store.AccessToken(ctx); err != nil {
		if errors.Is(err, ports.ErrNotAuthenticated) {
			return Status{}, nil
		}
		return Status{}, err
	}

	status := Status{LoggedIn: true}
	if profile, found, err := s.store.Profile(ctx); err != nil {
		return Status{}, err
	} else if found {
		status.User = &profile
	}
	if expiresAt, found, err := s.store.ExpiresAt(ctx); err != nil {
		return Status{}, err
	} else if found {
		status.ExpiresAt = &expiresAt
	}
	return status, nil
}
