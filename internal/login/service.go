package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/auth"
	"github.com/frahmantamala/billed/internal/core/events"
	"github.com/frahmantamala/billed/internal/core/datamodel/session"
	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/storage"
	"github.com/frahmantamala/billed/internal/store"
	"github.com/frahmantamala/billed/internal/ui"
	"github.com/frahmantamala/billed/internal/workflow"
)

type Deps struct {
	Store      store.Store
	Storage    storage.Storage
	Navigator  routes.Navigator
	ErrorSlots map[session.Role]ui.ErrorSlot
	Events     events.Publisher
	Logger     *slog.Logger
}

// Service is the login page workflow.
type Service struct {
	store      store.Store
	storage    storage.Storage
	navigator  routes.Navigator
	errorSlots map[session.Role]ui.ErrorSlot
	events     events.Publisher
	logger     *slog.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		store:      d.Store,
		storage:    d.Storage,
		navigator:  d.Navigator,
		errorSlots: d.ErrorSlots,
		events:     d.Events,
		logger:     d.Logger,
	}
}

// Submit handles a submission of the role's login form and returns the updated navigation context.
func (s *Service) Submit(ctx context.Context, nav routes.Context, role session.Role, form ui.Form) (routes.Context, error) {
	creds := ReadCredentials(role, form)
	runner := s.runner(role)

	if err := Validate(creds); err != nil {
		if applyErr := runner.Apply(ctx, OnInvalid()); applyErr != nil {
			return nav, applyErr
		}
		return nav, err
	}

	return s.authenticate(ctx, nav, role, creds)
}

// Register creates the user on the Store and then logs in with the same credentials.
func (s *Service) Register(ctx context.Context, nav routes.Context, role session.Role, creds session.Credentials) (routes.Context, error) {
	runner := s.runner(role)

	if err := Validate(creds); err != nil {
		if applyErr := runner.Apply(ctx, OnInvalid()); applyErr != nil {
			return nav, applyErr
		}
		return nav, err
	}

	if s.store == nil {
		return nav, s.fail(ctx, runner, internal.ErrStoreUnavailable)
	}

	data, err := json.Marshal(struct {
		Type     string `json:"type"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{
		Type:     string(role),
		Name:     UserName(creds.Email),
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return nav, internal.NewInternalError("failed to encode user", err)
	}

	if _, err := s.store.Users().Create(ctx, store.CreateRequest{Data: data}); err != nil {
		return nav, s.fail(ctx, runner, err)
	}
	s.logger.Info("user created", "email", creds.Email, "type", role)

	return s.authenticate(ctx, nav, role, creds)
}

func (s *Service) authenticate(ctx context.Context, nav routes.Context, role session.Role, creds session.Credentials) (routes.Context, error) {
	runner := s.runner(role)

	if s.store == nil {
		return nav, s.fail(ctx, runner, internal.ErrStoreUnavailable)
	}

	body, err := json.Marshal(creds)
	if err != nil {
		return nav, internal.NewInternalError("failed to encode credentials", err)
	}

	result, err := s.store.Login(ctx, body)
	if err != nil {
		return nav, s.fail(ctx, runner, err)
	}

	next, effects, err := OnSuccess(nav, role, creds, result.JWT)
	if err != nil {
		return nav, s.fail(ctx, runner, err)
	}
	prevToken := s.storedToken(ctx)
	if err := runner.Apply(ctx, effects); err != nil {
		s.restoreToken(ctx, prevToken, result.JWT)
		return nav, s.fail(ctx, runner, internal.NewInternalError("failed to store session", err))
	}

	s.logger.Info("user logged in", "email", creds.Email, "type", role, "destination", next.PreviousLocation)
	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewSessionOpenedEvent(creds.Email, string(role))); err != nil {
			s.logger.Warn("failed to publish session event", "error", err)
		}
	}
	return next, nil
}

func (s *Service) storedToken(ctx context.Context) string {
	if s.storage == nil {
		return ""
	}
	token, err := storage.Token(ctx, s.storage)
	if err != nil {
		s.logger.Warn("failed to read stored token", "error", err)
	}
	return token
}

// restoreToken puts back the previous token when the session record could not
// follow it, so a stored user never pairs with another login's token.
func (s *Service) restoreToken(ctx context.Context, prev, written string) {
	if s.storage == nil || prev == written {
		return
	}
	current, err := storage.Token(ctx, s.storage)
	if err != nil || current != written {
		return
	}
	if err := s.storage.SetItem(ctx, session.StorageKeyToken, prev); err != nil {
		s.logger.Error("failed to restore previous token", "error", err)
	}
}

func (s *Service) fail(ctx context.Context, runner *workflow.Runner, err error) error {
	if applyErr := runner.Apply(ctx, OnFailure(err)); applyErr != nil {
		return errors.Join(err, applyErr)
	}
	return err
}

func (s *Service) runner(role session.Role) *workflow.Runner {
	return &workflow.Runner{
		Storage:   s.storage,
		Navigator: s.navigator,
		ErrorSlot: s.errorSlots[role],
		Logger:    s.logger,
	}
}

// Current is the identity currently persisted.
type Current struct {
	Session session.Session
	Token   string
	Claims  *auth.TokenInfo
}

// CurrentSession reads back what the last successful login stored.
// Claims stay nil when the token is not a readable JWT.
func (s *Service) CurrentSession(ctx context.Context) (Current, error) {
	sess, token, err := storage.LoadSession(ctx, s.storage)
	if err != nil {
		return Current{}, err
	}

	current := Current{Session: sess, Token: token}
	if info, err := auth.Inspect(token); err == nil {
		current.Claims = &info
	} else {
		s.logger.Debug("token is not a readable jwt", "error", err)
	}
	return current, nil
}
