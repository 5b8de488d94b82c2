package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"freightdesk/internal/bootstrap/config"
	"freightdesk/internal/domain/user"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
)

const (
	keyPrefix    = "session:"
	tokenKey     = keyPrefix + "token"
	profileKey   = keyPrefix + "profile"
	expiresAtKey = keyPrefix + "expires_at"
)

var ErrTokenExpired = errors.New("access token already expired")

// Store keeps the bearer token and profile in the local cache. It is the
// ports.Credentials the gateway reads on every request.
type Store struct {
	cache      ports.Cache
	uow        ports.UnitOfWork
	defaultTTL time.Duration
	now        func() time.Time
}

var _ ports.Credentials = (*Store)(nil)

func NewStore(cache ports.Cache, uow ports.UnitOfWork, cfg config.SessionConfig) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{
		cache:      cache,
		uow:        uow,
		defaultTTL: ttl,
		now:        time.Now,
	}
}

func (s *Store) AccessToken(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	token, found, err := s.cache.Get(ctx, tokenKey)
	if err != nil {
		return "", errs.Wrap(err, "read session token")
	}
	if !found || strings.TrimSpace(token) == "" {
		return "", ports.ErrNotAuthenticated
	}
	return token, nil
}

func (s *Store) Invalidate(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if _, err := s.cache.DeletePrefix(ctx, keyPrefix); err != nil {
		return errs.Wrap(err, "clear session")
	}
	return nil
}

// Save stores the token and, when known, the profile in one transaction.
// The entries live until the token's exp claim, or the configured ttl for
// tokens that carry none.
func (s *Store) Save(ctx context.Context, token string, profile *user.User) (time.Time, error) {
	if ctx == nil {
		return time.Time{}, errors.New("context is required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, errors.New("access token is required")
	}

	ttl, err := s.ttlFor(token)
	if err != nil {
		return time.Time{}, err
	}
	expiresAt := s.now().UTC().Add(ttl)

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.cache.DeletePrefix(txCtx, keyPrefix); err != nil {
			return errs.Wrap(err, "clear previous session")
		}
		if err := s.cache.Set(txCtx, tokenKey, token, ttl); err != nil {
			return errs.Wrap(err, "store session token")
		}
		if err := s.cache.Set(txCtx, expiresAtKey, expiresAt.Format(time.RFC3339), ttl); err != nil {
			return errs.Wrap(err, "store session expiry")
		}
		if profile != nil {
			return s.saveProfile(txCtx, *profile, ttl)
		}
		return nil
	}); err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

func (s *Store) SaveProfile(ctx context.Context, profile user.User) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	expiresAt, ok, err := s.ExpiresAt(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ports.ErrNotAuthenticated
	}
	return s.saveProfile(ctx, profile, expiresAt.Sub(s.now()))
}

func (s *Store) saveProfile(ctx context.Context, profile user.User, ttl time.Duration) error {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return errs.Wrap(err, "encode session profile")
	}
	if err := s.cache.Set(ctx, profileKey, string(encoded), ttl); err != nil {
		return errs.Wrap(err, "store session profile")
	}
	return nil
}

// Profile returns the cached profile without touching the network.
func (s *Store) Profile(ctx context.Context) (user.User, bool, error) {
	if ctx == nil {
		return user.User{}, false, errors.New("context is required")
	}
	raw, found, err := s.cache.Get(ctx, profileKey)
	if err != nil {
		return user.User{}, false, errs.Wrap(err, "read session profile")
	}
	if !found {
		return user.User{}, false, nil
	}
	var profile user.User
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return user.User{}, false, errs.Wrap(err, "decode session profile")
	}
	return profile, true, nil
}

func (s *Store) ExpiresAt(ctx context.Context) (time.Time, bool, error) {
	raw, found, err := s.cache.Get(ctx, expiresAtKey)
	if err != nil {
		return time.Time{}, false, errs.Wrap(err, "read session expiry")
	}
	if !found {
		return time.Time{}, false, nil
	}
	expiresAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, errs.Wrap(err, "parse session expiry")
	}
	return expiresAt, true, nil
}

// ttlFor reads exp without verifying the signature; the server remains the
// authority on validity.
func (s *Store) ttlFor(token string) (time.Duration, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return s.defaultTTL, nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return 0, ErrTokenExpired
	}
	return ttl, nil
}
