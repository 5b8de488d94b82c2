package ports

import "context"

// Credentials supplies the bearer token for outgoing requests and tears the
// session down when the server rejects it.
type Credentials interface {
	// AccessToken returns ErrNotAuthenticated when there is no live session.
	AccessToken(ctx context.Context) (string, error)
	Invalidate(ctx context.Context) error
}
