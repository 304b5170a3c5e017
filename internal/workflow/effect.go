// Package workflow applies the side effects computed by the pure workflow steps.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/storage"
	"github.com/frahmantamala/billed/internal/ui"
)

type Kind string

const (
	KindStorageWrite   Kind = "storage_write"
	KindNavigate       Kind = "navigate"
	KindLog            Kind = "log"
	KindAlert          Kind = "alert"
	KindSetError       Kind = "set_error"
	KindResetFileInput Kind = "reset_file_input"
	KindShowPreview    Kind = "show_preview"
)

// Effect is one side effect requested by a workflow step.
type Effect struct {
	Kind    Kind
	Key     string
	Value   string
	Route   routes.Path
	Level   slog.Level
	Message string
	Err     error
	Width   int
}

func StorageWrite(key, value string) Effect {
	return Effect{Kind: KindStorageWrite, Key: key, Value: value}
}

func Navigate(path routes.Path) Effect {
	return Effect{Kind: KindNavigate, Route: path}
}

func Log(level slog.Level, message string, err error) Effect {
	return Effect{Kind: KindLog, Level: level, Message: message, Err: err}
}

func Alert(message string) Effect {
	return Effect{Kind: KindAlert, Message: message}
}

// SetError writes text into the form's error slot; an empty text clears it.
func SetError(text string) Effect {
	return Effect{Kind: KindSetError, Message: text}
}

func ResetFileInput() Effect {
	return Effect{Kind: KindResetFileInput}
}

func ShowPreview(src string, width int) Effect {
	return Effect{Kind: KindShowPreview, Value: src, Width: width}
}

// Runner performs effects against the configured capabilities.
// A nil capability makes its effects no-ops, like a page without that element.
type Runner struct {
	Storage   storage.Storage
	Navigator routes.Navigator
	Alerter   ui.Alerter
	ErrorSlot ui.ErrorSlot
	FileInput ui.FileInput
	Modal     ui.Modal
	Logger    *slog.Logger
}

// Apply runs effects in order and stops at the first storage failure.
func (r *Runner) Apply(ctx context.Context, effects []Effect) error {
	for _, e := range effects {
		switch e.Kind {
		case KindStorageWrite:
			if r.Storage == nil {
				return fmt.Errorf("no storage configured for key %q", e.Key)
			}
			if err := r.Storage.SetItem(ctx, e.Key, e.Value); err != nil {
				return fmt.Errorf("failed to write %q: %w", e.Key, err)
			}
		case KindNavigate:
			if r.Navigator != nil {
				r.Navigator.Navigate(e.Route)
			}
		case KindLog:
			if r.Logger != nil {
				args := []any{}
				if e.Err != nil {
					args = append(args, "error", e.Err)
				}
				r.Logger.Log(ctx, e.Level, e.Message, args...)
			}
		case KindAlert:
			if r.Alerter != nil {
				r.Alerter.Alert(e.Message)
			}
		case KindSetError:
			if r.ErrorSlot != nil {
				r.ErrorSlot.SetText(e.Message)
			}
		case KindResetFileInput:
			if r.FileInput != nil {
				r.FileInput.Reset()
			}
		case KindShowPreview:
			if r.Modal != nil {
				r.Modal.SetImage(e.Value, e.Width)
				r.Modal.Show()
			}
		default:
			return fmt.Errorf("unknown effect kind %q", e.Kind)
		}
	}
	return nil
}

// Kinds lists the kinds of effects, in order. Handy in tests.
func Kinds(effects []Effect) []Kind {
	kinds := make([]Kind, len(effects))
	for i, e := range effects {
		kinds[i] = e.Kind
	}
	return kinds
}

// Find returns the first effect of the given kind.
func Find(effects []Effect, kind Kind) (Effect, bool) {
	for _, e := range effects {
		if e.Kind == kind {
			return e, true
		}
	}
	return Effect{}, false
}
