package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/core/events"
	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/storage"
	"github.com/frahmantamala/billed/internal/storage/database"
	"github.com/frahmantamala/billed/internal/store/rest"
	"github.com/frahmantamala/billed/internal/ui"
	"github.com/frahmantamala/billed/pkg/logger"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config  *internal.Config
	Logger  *slog.Logger
	DB      *gorm.DB
	Storage storage.Storage
	Store   *rest.Client
	Events  *events.EventBus
	Console *ui.Console
	Out     io.Writer
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Setup(logger.Options{Level: config.Logging.Level, Format: config.Logging.Format})

	deps := &Dependencies{
		Config:  config,
		Logger:  lg,
		Events:  events.NewEventBus(lg),
		Console: ui.NewConsole(os.Stdout, consoleWidth),
		Out:     os.Stdout,
	}

	if config.Storage.Driver == internal.StorageDriverMemory {
		lg.Warn("memory storage selected, the session will not survive this command")
		deps.Storage = storage.NewMemory()
	} else {
		db, err := database.Open(config.Storage)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db, config.Storage.Driver); err != nil {
			return nil, fmt.Errorf("failed to migrate storage: %w", err)
		}
		deps.DB = db
		deps.Storage = database.NewStorage(db)
	}

	tokens := func(ctx context.Context) (string, error) {
		return storage.Token(ctx, deps.Storage)
	}
	deps.Store = rest.NewClient(rest.Config{
		BaseURL: config.Store.BaseURL,
		Timeout: config.Store.Timeout,
	}, tokens, lg)

	deps.subscribe()
	return deps, nil
}

// subscribe prints workflow outcomes for the user.
func (d *Dependencies) subscribe() {
	d.Events.Subscribe(events.EventTypeSessionOpened, func(_ context.Context, e events.Event) error {
		opened := e.(*events.SessionOpenedEvent)
		_, err := fmt.Fprintf(d.Out, "Connecté en tant que %s (%s)\n", opened.Email, opened.Role)
		return err
	})
	d.Events.Subscribe(events.EventTypeReceiptUploaded, func(_ context.Context, e events.Event) error {
		uploaded := e.(*events.ReceiptUploadedEvent)
		_, err := fmt.Fprintf(d.Out, "Justificatif %s envoyé (%s)\n", uploaded.FileName, uploaded.BillID)
		return err
	})
	d.Events.Subscribe(events.EventTypeBillSubmitted, func(_ context.Context, e events.Event) error {
		submitted := e.(*events.BillSubmittedEvent)
		_, err := fmt.Fprintf(d.Out, "Note de frais %s envoyée\n", submitted.BillID)
		return err
	})
}

// Navigator prints the page the workflow moved to.
func (d *Dependencies) Navigator() routes.Navigator {
	return routes.NavigatorFunc(func(path routes.Path) {
		d.Logger.Debug("navigate", "path", path)
		fmt.Fprintf(d.Out, "Page: %s\n", path)
	})
}

func (d *Dependencies) Close() {
	d.Events.Wait()
	if d.DB == nil {
		return
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		d.Logger.Error("storage close error", "error", err)
	}
}

// withDependencies runs fn with a context that carries the command name in its logger.
func withDependencies(name string, fn func(ctx context.Context, deps *Dependencies) error) error {
	ctx := context.Background()
	deps, err := initializeDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx = logger.With(ctx, "command", name)
	return fn(ctx, deps)
}
