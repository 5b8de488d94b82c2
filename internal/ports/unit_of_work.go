package ports

import "context"

// Tx is the adapter's transaction handle (a *gorm.DB for the sqlite store).
type Tx interface{}

// UnitOfWork runs fn in one transaction: an error rolls back, nil commits.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns nil outside WithTx.
func TxFromContext(ctx context.Context) Tx {
	if ctx == nil {
		return nil
	}
	return ctx.Value(txKey{})
}
