package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"freightdesk/internal/errs"
	"freightdesk/internal/infrastructure/persistence/sqlite/model"
	"freightdesk/internal/ports"
)

type SQLiteCache struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.Cache = (*SQLiteCache)(nil)

func NewSQLiteCache(db *gorm.DB) *SQLiteCache {
	return &SQLiteCache{db: db, now: time.Now}
}

// conn joins the transaction opened by the unit of work, if any.
func (c *SQLiteCache) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ports.TxFromContext(ctx).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return c.db.WithContext(ctx)
}

func (c *SQLiteCache) Get(ctx context.Context, key string) (string, bool, error) {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return "", false, err
	}

	var row model.SessionKV
	if err := c.conn(ctx).Where("key = ?", trimmedKey).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query cache by key")
	}

	if c.expired(row) {
		if err := c.conn(ctx).Where("key = ?", trimmedKey).Delete(&model.SessionKV{}).Error; err != nil {
			return "", false, errs.Wrap(err, "evict expired cache key")
		}
		return "", false, nil
	}

	return row.Value, true, nil
}

func (c *SQLiteCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}

	now := c.now().UTC()
	row := model.SessionKV{
		Key:       trimmedKey,
		Value:     value,
		UpdatedAt: now.Format(time.RFC3339Nano),
	}
	if ttl > 0 {
		row.ExpiresAt = now.Add(ttl).Format(time.RFC3339Nano)
	}

	if err := c.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"expires_at": row.ExpiresAt,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert cache key")
	}

	return nil
}

func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}

	if err := c.conn(ctx).Where("key = ?", trimmedKey).Delete(&model.SessionKV{}).Error; err != nil {
		return errs.Wrap(err, "delete cache key")
	}
	return nil
}

func (c *SQLiteCache) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	trimmedPrefix, err := checkKey(ctx, prefix)
	if err != nil {
		return 0, err
	}

	result := c.conn(ctx).
		Where("key LIKE ? ESCAPE '\\'", escapeLike(trimmedPrefix)+"%").
		Delete(&model.SessionKV{})
	if result.Error != nil {
		return 0, errs.Wrap(result.Error, "delete cache prefix")
	}
	return result.RowsAffected, nil
}

func (c *SQLiteCache) expired(row model.SessionKV) bool {
	if row.ExpiresAt == "" {
		return false
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, row.ExpiresAt)
	if err != nil {
		// unreadable expiry is treated as stale
		return true
	}
	return !c.now().UTC().Before(expiresAt)
}

func checkKey(ctx context.Context, key string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", errors.New("key is required")
	}
	return trimmedKey, nil
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
