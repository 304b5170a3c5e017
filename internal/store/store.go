// Package store declares the remote resource API the workflows talk to.
package store

import (
	"context"
	"encoding/json"
	"io"

	"github.com/frahmantamala/billed/internal/core/datamodel/bill"
)

// Store is the remote back end: authentication plus user and bill collections.
type Store interface {
	// Login takes the JSON-encoded credentials.
	Login(ctx context.Context, credentials []byte) (LoginResult, error)
	Users() Users
	Bills() Bills
}

type Users interface {
	Create(ctx context.Context, req CreateRequest) (User, error)
}

type Bills interface {
	List(ctx context.Context) ([]bill.Record, error)
	Create(ctx context.Context, form FileForm) (bill.Upload, error)
	Update(ctx context.Context, req UpdateRequest) (bill.Record, error)
}

type LoginResult struct {
	JWT string `json:"jwt"`
}

type User struct {
	ID    string `json:"id,omitempty"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateRequest carries a JSON-encoded resource.
type CreateRequest struct {
	Data json.RawMessage
}

// UpdateRequest carries a JSON-encoded resource and the id it replaces.
type UpdateRequest struct {
	Data     json.RawMessage
	Selector string
}

// FileForm is the multipart form of a receipt upload.
type FileForm struct {
	FileName string
	File     io.Reader
	Fields   map[string]string
}
