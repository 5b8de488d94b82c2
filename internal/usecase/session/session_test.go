package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"freightdesk/internal/bootstrap/config"
	"freightdesk/internal/domain/user"
	"freightdesk/internal/ports"
)

type testCache struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newTestCache() *testCache {
	return &testCache{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (c *testCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *testCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *testCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *testCache) DeletePrefix(_ context.Context, prefix string) (int64, error) {
	var removed int64
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
			removed++
		}
	}
	return removed, nil
}

type inlineUnitOfWork struct{}

func (inlineUnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAuth struct {
	token     ports.AuthToken
	loginErr  error
	me        user.User
	meErr     error
	logoutErr error
	logouts   int
}

func (f *fakeAuth) Login(context.Context, string, string) (ports.AuthToken, error) {
	return f.token, f.loginErr
}

func (f *fakeAuth) CurrentUser(context.Context) (user.User, error) {
	return f.me, f.meErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

var fixedNow = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestStore(cache *testCache) *Store {
	store := NewStore(cache, inlineUnitOfWork{}, config.SessionConfig{TTL: 12 * time.Hour})
	store.now = func() time.Time { return fixedNow }
	return store
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestStoreTTLFollowsTokenExpiry(t *testing.T) {
	testCases := []struct {
		name    string
		token   func(t *testing.T) string
		wantTTL time.Duration
		wantErr error
	}{
		{
			name:    "jwt exp",
			token:   func(t *testing.T) string { return signedToken(t, fixedNow.Add(90*time.Minute)) },
			wantTTL: 90 * time.Minute,
		},
		{
			name:    "opaque token",
			token:   func(*testing.T) string { return "opaque-token" },
			wantTTL: 12 * time.Hour,
		},
		{
			name:    "expired jwt",
			token:   func(t *testing.T) string { return signedToken(t, fixedNow.Add(-time.Minute)) },
			wantErr: ErrTokenExpired,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			cache := newTestCache()
			store := newTestStore(cache)

			expiresAt, err := store.Save(context.Background(), testCase.token(t), nil)
			if testCase.wantErr != nil {
				if !errors.Is(err, testCase.wantErr) {
					t.Fatalf("Save() error = %v, want %v", err, testCase.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if cache.ttls[tokenKey] != testCase.wantTTL {
				t.Fatalf("token ttl = %s, want %s", cache.ttls[tokenKey], testCase.wantTTL)
			}
			if !expiresAt.Equal(fixedNow.Add(testCase.wantTTL)) {
				t.Fatalf("expiresAt = %s", expiresAt)
			}
		})
	}
}

func TestStoreAccessTokenAndInvalidate(t *testing.T) {
	cache := newTestCache()
	store := newTestStore(cache)
	ctx := context.Background()

	if _, err := store.AccessToken(ctx); !errors.Is(err, ports.ErrNotAuthenticated) {
		t.Fatalf("AccessToken() before login error = %v, want ErrNotAuthenticated", err)
	}

	cache.data["other:key"] = "keep"
	if _, err := store.Save(ctx, "tok", &user.User{ID: 3}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if token, err := store.AccessToken(ctx); err != nil || token != "tok" {
		t.Fatalf("AccessToken() = %q, %v", token, err)
	}

	if err := store.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, err := store.AccessToken(ctx); !errors.Is(err, ports.ErrNotAuthenticated) {
		t.Fatalf("AccessToken() after invalidate error = %v", err)
	}
	if _, found, _ := store.Profile(ctx); found {
		t.Fatalf("profile should be cleared with the token")
	}
	if cache.data["other:key"] != "keep" {
		t.Fatalf("Invalidate() removed unrelated keys")
	}
}

func TestLoginStoresTokenAndProfile(t *testing.T) {
	cache := newTestCache()
	auth := &fakeAuth{token: ports.AuthToken{AccessToken: "tok", User: &user.User{ID: 9, Email: "ops@example.com"}}}
	service := NewService(auth, newTestStore(cache))
	ctx := context.Background()

	profile, err := service.Login(ctx, " ops@example.com ", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if profile.ID != 9 {
		t.Fatalf("Login() profile = %+v", profile)
	}

	status, err := service.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.LoggedIn || status.User == nil || status.User.ID != 9 || status.ExpiresAt == nil {
		t.Fatalf("Status() = %+v", status)
	}
}

func TestLoginFetchesProfileWhenTokenHasNone(t *testing.T) {
	cache := newTestCache()
	auth := &fakeAuth{token: ports.AuthToken{AccessToken: "tok"}, me: user.User{ID: 4, Username: "ops"}}
	service := NewService(auth, newTestStore(cache))

	profile, err := service.Login(context.Background(), "ops@example.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if profile.ID != 4 {
		t.Fatalf("Login() profile = %+v", profile)
	}
	if _, found, _ := service.store.Profile(context.Background()); !found {
		t.Fatalf("expected profile to be cached")
	}
}

func TestLoginValidation(t *testing.T) {
	testCases := []struct {
		name     string
		email    string
		password string
		auth     *fakeAuth
		wantErr  error
	}{
		{name: "missing email", email: " ", password: "x", auth: &fakeAuth{}, wantErr: ErrEmailRequired},
		{name: "missing password", email: "a@b.c", password: "", auth: &fakeAuth{}, wantErr: ErrPasswordRequired},
		{name: "rejected", email: "a@b.c", password: "x", auth: &fakeAuth{loginErr: ports.ErrUnauthorized}, wantErr: ports.ErrUnauthorized},
		{name: "empty token", email: "a@b.c", password: "x", auth: &fakeAuth{}, wantErr: ports.ErrMalformedResponse},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := NewService(testCase.auth, newTestStore(newTestCache()))
			_, err := service.Login(context.Background(), testCase.email, testCase.password)
			if !errors.Is(err, testCase.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, testCase.wantErr)
			}
		})
	}
}

func TestLogoutClearsLocalStateEvenWhenServerFails(t *testing.T) {
	cache := newTestCache()
	auth := &fakeAuth{logoutErr: ports.ErrServer}
	store := newTestStore(cache)
	service := NewService(auth, store)
	ctx := context.Background()

	if _, err := store.Save(ctx, "tok", nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := service.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if auth.logouts != 1 {
		t.Fatalf("server logout calls = %d, want 1", auth.logouts)
	}
	if _, err := store.AccessToken(ctx); !errors.Is(err, ports.ErrNotAuthenticated) {
		t.Fatalf("AccessToken() after logout error = %v", err)
	}

	if err := service.Logout(ctx); err != nil {
		t.Fatalf("second Logout() error = %v", err)
	}
	if auth.logouts != 1 {
		t.Fatalf("logout without session should not call the server")
	}
}

func TestCurrentRequiresSession(t *testing.T) {
	service := NewService(&fakeAuth{}, newTestStore(newTestCache()))

	if _, err := service.Current(context.Background()); !errors.Is(err, ports.ErrNotAuthenticated) {
		t.Fatalf("Current() error = %v, want ErrNotAuthenticated", err)
	}
}
