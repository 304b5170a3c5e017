package login

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/core/common/validation"
	"github.com/frahmantamala/billed/internal/core/datamodel/session"
	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/ui"
	"github.com/frahmantamala/billed/internal/workflow"
)

const (
	MsgMissingFields = "Veuillez remplir tous les champs."
	MsgLoginFailed   = "Erreur de connexion"
)

var ErrMissingFields = internal.NewValidationError(MsgMissingFields, internal.ErrCodeMissingCredentials)

// Field ids of the login forms.
const (
	FieldEmployeeEmail    = "employee-email-input"
	FieldEmployeePassword = "employee-password-input"
	FieldAdminEmail       = "admin-email-input"
	FieldAdminPassword    = "admin-password-input"
)

// ReadCredentials extracts the credentials from the form belonging to role.
func ReadCredentials(role session.Role, form ui.Form) session.Credentials {
	if role == session.RoleAdmin {
		return session.Credentials{
			Email:    form.Value(FieldAdminEmail),
			Password: form.Value(FieldAdminPassword),
		}
	}
	return session.Credentials{
		Email:    form.Value(FieldEmployeeEmail),
		Password: form.Value(FieldEmployeePassword),
	}
}

// Validate fails when either credential is empty.
func Validate(creds session.Credentials) error {
	v := validation.NewValidator()
	v.Field("email", creds.Email).Required()
	v.Field("password", creds.Password).Required()
	if err := v.Validate(); err != nil {
		return ErrMissingFields
	}
	return nil
}

// OnInvalid is the step taken when the form is incomplete.
func OnInvalid() []workflow.Effect {
	return []workflow.Effect{workflow.SetError(MsgMissingFields)}
}

// OnSuccess persists the session, clears the error slot and moves to the role's home page.
func OnSuccess(nav routes.Context, role session.Role, creds session.Credentials, token string) (routes.Context, []workflow.Effect, error) {
	user, err := json.Marshal(session.New(role, creds))
	if err != nil {
		return nav, nil, internal.NewInternalError("failed to encode session", err)
	}

	home := routes.HomeFor(role)
	// the token goes first: the session exists once "user" is written
	effects := []workflow.Effect{
		workflow.StorageWrite(session.StorageKeyToken, token),
		workflow.StorageWrite(session.StorageKeyUser, string(user)),
		workflow.SetError(""),
		workflow.Navigate(home),
	}
	nav.PreviousLocation = home
	return nav, effects, nil
}

// OnFailure logs the failure and shows its message; nothing is stored and nobody navigates.
func OnFailure(err error) []workflow.Effect {
	return []workflow.Effect{
		workflow.Log(slog.LevelError, "login failed", err),
		workflow.SetError(internal.UserMessage(err, MsgLoginFailed)),
	}
}

// UserName derives the display name the back end expects on sign-up.
func UserName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
