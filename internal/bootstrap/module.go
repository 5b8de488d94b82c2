package bootstrap

import (
	"context"
	"strings"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"freightdesk/internal/bootstrap/config"
	"freightdesk/internal/bootstrap/database"
	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/infrastructure/bus"
	cacheinfra "freightdesk/internal/infrastructure/cache"
	"freightdesk/internal/infrastructure/httpapi"
	sqliteuow "freightdesk/internal/infrastructure/persistence/sqlite/uow"
	"freightdesk/internal/ports"
	"freightdesk/internal/usecase/billing"
	"freightdesk/internal/usecase/compliance"
	"freightdesk/internal/usecase/notifications"
	"freightdesk/internal/usecase/reports"
	"freightdesk/internal/usecase/session"
	"freightdesk/internal/usecase/shipments"
	"freightdesk/internal/usecase/users"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(provideSessionStore),
	fx.Provide(func(store *session.Store) ports.Credentials { return store }),
	fx.Provide(provideAPIClient),
	fx.Provide(
		func(client *httpapi.Client) ports.AuthGateway { return client },
		func(client *httpapi.Client) ports.ShipmentGateway { return client },
		func(client *httpapi.Client) ports.ComplianceGateway { return client },
		func(client *httpapi.Client) ports.NotificationGateway { return client },
		func(client *httpapi.Client) ports.UserGateway { return client },
		func(client *httpapi.Client) ports.ReportGateway { return client },
		func(client *httpapi.Client) ports.BillingGateway { return client },
		func(client *httpapi.Client) ports.InventoryGateway { return client },
	),
	fx.Provide(provideBus),
	fx.Provide(session.NewService),
	fx.Provide(provideTracker),
	fx.Provide(compliance.NewService),
	fx.Provide(shipments.NewService),
	fx.Provide(reports.NewService),
	fx.Provide(users.NewService),
	fx.Provide(billing.NewService),
	fx.Provide(provideServices),
)

// Services is everything a command needs once the graph is built.
type Services struct {
	App           *App
	Session       *session.Service
	Shipments     *shipments.Service
	Compliance    *compliance.Service
	Notifications *notifications.Tracker
	Reports       *reports.Service
	Users         *users.Service
	Billing       *billing.Service
}

type servicesParams struct {
	fx.In

	App           *App
	Session       *session.Service
	Shipments     *shipments.Service
	Compliance    *compliance.Service
	Notifications *notifications.Tracker
	Reports       *reports.Service
	Users         *users.Service
	Billing       *billing.Service
}

func provideServices(p servicesParams) *Services {
	return &Services{
		App:           p.App,
		Session:       p.Session,
		Shipments:     p.Shipments,
		Compliance:    p.Compliance,
		Notifications: p.Notifications,
		Reports:       p.Reports,
		Users:         p.Users,
		Billing:       p.Billing,
	}
}

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithComponent(p.Ctx, "bootstrap.fx")
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithComponent(ctx, "bootstrap.fx")

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

// provideApp makes sure the session tables exist before anything reads them.
func provideApp(lc fx.Lifecycle, cfg config.Config, db *gorm.DB) *App {
	app := &App{
		Config: cfg,
		DB:     db,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return app.EnsureSchema(ctx)
		},
	})
	return app
}

func provideSessionStore(cache ports.Cache, uow ports.UnitOfWork, cfg config.Config) *session.Store {
	return session.NewStore(cache, uow, cfg.Session)
}

func provideAPIClient(cfg config.Config, creds ports.Credentials) (*httpapi.Client, error) {
	return httpapi.NewClient(httpapi.OptionsFromConfig(cfg.API), creds)
}

// provideBus shares notification changes across processes when a NATS URL is
// configured and stays in-process otherwise.
func provideBus(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.NotificationBus, error) {
	url := strings.TrimSpace(cfg.Notifications.NATSURL)
	if url == "" {
		return bus.NewMemoryBus(), nil
	}

	natsBus, err := bus.NewNATSBus(logging.WithComponent(ctx, "bootstrap.fx"), url, cfg.Notifications.NATSSubject)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return natsBus.Close()
		},
	})
	return natsBus, nil
}

func provideTracker(gateway ports.NotificationGateway, notificationBus ports.NotificationBus, cfg config.Config) *notifications.Tracker {
	return notifications.NewTracker(gateway, notificationBus, cfg.Notifications)
}
