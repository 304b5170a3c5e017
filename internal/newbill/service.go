package newbill

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/core/events"
	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/storage"
	"github.com/frahmantamala/billed/internal/store"
	"github.com/frahmantamala/billed/internal/ui"
	"github.com/frahmantamala/billed/internal/workflow"
)

// File is the receipt picked by the user.
type File struct {
	Name    string
	Content io.Reader
}

type Deps struct {
	Store     store.Store
	Storage   storage.Storage
	Navigator routes.Navigator
	Alerter   ui.Alerter
	FileInput ui.FileInput
	Events    events.Publisher
	Logger    *slog.Logger
}

// Service is the new bill workflow. Create one per new bill.
// Handlers are serialized, so a submit always sees the outcome of an earlier upload.
type Service struct {
	mu      sync.Mutex
	draft   Draft
	store   store.Store
	storage storage.Storage
	runner  *workflow.Runner
	events  events.Publisher
	logger  *slog.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		store:   d.Store,
		storage: d.Storage,
		events:  d.Events,
		logger:  d.Logger,
		runner: &workflow.Runner{
			Storage:   d.Storage,
			Navigator: d.Navigator,
			Alerter:   d.Alerter,
			FileInput: d.FileInput,
			Logger:    d.Logger,
		},
	}
}

// Draft returns a copy of the current draft.
func (s *Service) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// HandleFileSelected validates the file and uploads it.
func (s *Service) HandleFileSelected(ctx context.Context, f File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects, upload, rejected := s.draft.SelectFile(f.Name)
	if err := s.runner.Apply(ctx, effects); err != nil {
		return err
	}
	if !upload {
		return rejected
	}

	if s.store == nil {
		s.draft, effects = next.UploadFailed(internal.ErrStoreUnavailable)
		return errors.Join(internal.ErrStoreUnavailable, s.runner.Apply(ctx, effects))
	}

	form := store.FileForm{
		FileName: f.Name,
		File:     f.Content,
		Fields:   map[string]string{"email": s.email(ctx)},
	}

	uploaded, err := s.store.Bills().Create(ctx, form)
	if err != nil {
		s.draft, effects = next.UploadFailed(err)
		return errors.Join(err, s.runner.Apply(ctx, effects))
	}

	s.draft, effects = next.UploadSucceeded(f.Name, uploaded)
	s.logger.Info("receipt uploaded", "file_name", f.Name, "bill_id", uploaded.Key)
	s.publish(ctx, events.NewReceiptUploadedEvent(uploaded.Key, f.Name, uploaded.FileURL))
	return s.runner.Apply(ctx, effects)
}

// HandleSubmit sends the completed bill and returns to the list once the Store accepted it.
func (s *Service) HandleSubmit(ctx context.Context, form ui.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects, record := s.draft.Submit(s.email(ctx), form)
	if err := s.runner.Apply(ctx, effects); err != nil {
		return err
	}
	if record == nil {
		if s.draft.State == StateSubmitted {
			return nil
		}
		return ErrMissingReceipt
	}

	if s.store == nil {
		s.draft, effects = next.UpdateFailed(internal.ErrStoreUnavailable)
		return errors.Join(internal.ErrStoreUnavailable, s.runner.Apply(ctx, effects))
	}

	data, err := Encode(record)
	if err != nil {
		return err
	}

	if _, err := s.store.Bills().Update(ctx, store.UpdateRequest{Data: data, Selector: next.BillID}); err != nil {
		s.draft, effects = next.UpdateFailed(err)
		return errors.Join(err, s.runner.Apply(ctx, effects))
	}

	s.draft, effects = next.UpdateSucceeded()
	s.logger.Info("bill submitted", "bill_id", next.BillID)
	s.publish(ctx, events.NewBillSubmittedEvent(next.BillID, record.Email, record.Name))
	return s.runner.Apply(ctx, effects)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

// email is the connected user's address, or "" when nobody is logged in.
func (s *Service) email(ctx context.Context) string {
	if s.storage == nil {
		return ""
	}
	sess, _, err := storage.LoadSession(ctx, s.storage)
	if err != nil {
		s.logger.Warn("no session for new bill", "error", err)
		return ""
	}
	return sess.Email
}
