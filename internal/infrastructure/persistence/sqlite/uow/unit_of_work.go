package uow

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"freightdesk/internal/ports"
)

// UnitOfWork implements ports.UnitOfWork on the local session store.
type UnitOfWork struct {
	db *gorm.DB
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithTx joins an enclosing transaction instead of opening a second one,
// so session writes composed from several helpers commit together.
func (u *UnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if fn == nil {
		return errors.New("transaction func is required")
	}
	if tx, ok := ports.TxFromContext(ctx).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ports.WithTxContext(ctx, tx))
	})
}
