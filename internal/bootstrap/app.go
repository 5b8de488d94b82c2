package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"freightdesk/internal/bootstrap/config"
	"freightdesk/internal/bootstrap/database"
	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/errs"
	"freightdesk/internal/infrastructure/persistence/schema"
	"freightdesk/internal/infrastructure/persistence/sqlite/model"
)

type App struct {
	Config config.Config
	DB     *gorm.DB
}

func New(ctx context.Context, configFile string) (*App, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithComponent(ctx, "bootstrap.app")
	logging.Info(logCtx, "loading application config", slog.String("config_file", configFile))

	cfg, err := config.Load(logCtx, configFile)
	if err != nil {
		return nil, errs.Wrap(err, "load config")
	}

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, errs.Wrap(err, "open database")
	}

	logging.Info(logCtx, "application bootstrap completed", slog.String("database_driver", cfg.Database.Driver))

	return &App{
		Config: cfg,
		DB:     db,
	}, nil
}

// InitSchema migrates the local session store and stamps its version.
// initialized_at keeps the value from the first run.
func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithComponent(ctx, "bootstrap.app")
	logging.Info(logCtx, "start schema migration")

	db := a.DB.WithContext(ctx)
	if err := db.AutoMigrate(&model.SessionKV{}, &schema.StoreMeta{}); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		initialized := schema.StoreMeta{Key: schema.MetaInitializedAt, Value: time.Now().UTC().Format(time.RFC3339)}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&initialized).Error; err != nil {
			return errs.Wrap(err, "record initialized_at")
		}
		version := schema.StoreMeta{Key: schema.MetaSchemaVersion, Value: schema.CurrentVersion}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&version).Error; err != nil {
			return errs.Wrap(err, "record schema_version")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Info(logCtx, "schema migration completed", slog.String("schema_version", schema.CurrentVersion))
	return nil
}

// SchemaVersion returns the stamped version, or "" on a fresh database.
func (a *App) SchemaVersion(ctx context.Context) (string, error) {
	db := a.DB.WithContext(ctx)
	if !db.Migrator().HasTable(&schema.StoreMeta{}) {
		return "", nil
	}

	var meta schema.StoreMeta
	err := db.Where("key = ?", schema.MetaSchemaVersion).Take(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errs.Wrap(err, "read schema version")
	}
	return meta.Value, nil
}

// EnsureSchema migrates only when the stored version is behind.
func (a *App) EnsureSchema(ctx context.Context) error {
	version, err := a.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version == schema.CurrentVersion {
		return nil
	}
	return a.InitSchema(ctx)
}

func (a *App) Close(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}

	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}

	logging.Info(logging.WithComponent(ctx, "bootstrap.app"), "database connection closed")
	return nil
}
