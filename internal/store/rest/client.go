package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/core/datamodel/bill"
	"github.com/frahmantamala/billed/internal/store"
	"github.com/frahmantamala/billed/internal/transport"
	"github.com/frahmantamala/billed/internal/transport/middleware"
)

// TokenSource returns the bearer token to attach, or "" when anonymous.
type TokenSource func(ctx context.Context) (string, error)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the Billed back end over HTTP.
type Client struct {
	*transport.BaseClient
	baseURL string
	tokens  TokenSource
}

func NewClient(cfg Config, tokens TokenSource, logger *slog.Logger) *Client {
	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: middleware.NewClientTransport(http.DefaultTransport, logger),
	}
	return NewClientWithHTTP(cfg, tokens, httpClient, logger)
}

// NewClientWithHTTP uses the given *http.Client as is.
func NewClientWithHTTP(cfg Config, tokens TokenSource, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		BaseClient: transport.NewBaseClient(httpClient, logger),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokens:     tokens,
	}
}

func (c *Client) Users() store.Users { return &users{c: c} }

func (c *Client) Bills() store.Bills { return &bills{c: c} }

func (c *Client) Login(ctx context.Context, credentials []byte) (store.LoginResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", bytes.NewReader(credentials), false)
	if err != nil {
		return store.LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return store.LoginResult{}, err
	}

	var result store.LoginResult
	if err := c.DecodeJSON(resp, &result); err != nil {
		return store.LoginResult{}, err
	}
	return result, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, authenticated bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, internal.NewInternalError("failed to create store request", err)
	}

	if authenticated && c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			return nil, internal.NewInternalError("failed to read token", err)
		}
		transport.SetBearer(req, token)
	}
	return req, nil
}

type users struct {
	c *Client
}

func (u *users) Create(ctx context.Context, r store.CreateRequest) (store.User, error) {
	req, err := u.c.newRequest(ctx, http.MethodPost, "/users", bytes.NewReader(r.Data), false)
	if err != nil {
		return store.User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.c.Do(req)
	if err != nil {
		return store.User{}, err
	}

	var created store.User
	if err := u.c.DecodeJSON(resp, &created); err != nil {
		return store.User{}, err
	}
	return created, nil
}

type bills struct {
	c *Client
}

func (b *bills) List(ctx context.Context) ([]bill.Record, error) {
	req, err := b.c.newRequest(ctx, http.MethodGet, "/bills", nil, true)
	if err != nil {
		return nil, err
	}

	resp, err := b.c.Do(req)
	if err != nil {
		return nil, err
	}

	var records []bill.Record
	if err := b.c.DecodeJSON(resp, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (b *bills) Create(ctx context.Context, form store.FileForm) (bill.Upload, error) {
	body, contentType, err := encodeForm(form)
	if err != nil {
		return bill.Upload{}, internal.NewInternalError("failed to encode upload", err)
	}

	req, err := b.c.newRequest(ctx, http.MethodPost, "/bills", body, true)
	if err != nil {
		return bill.Upload{}, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := b.c.Do(req)
	if err != nil {
		return bill.Upload{}, err
	}

	var upload bill.Upload
	if err := b.c.DecodeJSON(resp, &upload); err != nil {
		return bill.Upload{}, err
	}
	return upload, nil
}

func (b *bills) Update(ctx context.Context, r store.UpdateRequest) (bill.Record, error) {
	if r.Selector == "" {
		return bill.Record{}, internal.NewValidationError("missing bill selector", internal.ErrCodeValidationFailed)
	}

	path := fmt.Sprintf("/bills/%s", url.PathEscape(r.Selector))
	req, err := b.c.newRequest(ctx, http.MethodPatch, path, bytes.NewReader(r.Data), true)
	if err != nil {
		return bill.Record{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.c.Do(req)
	if err != nil {
		return bill.Record{}, err
	}

	var updated bill.Record
	if err := b.c.DecodeJSON(resp, &updated); err != nil {
		return bill.Record{}, err
	}
	return updated, nil
}

func encodeForm(form store.FileForm) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	part, err := w.CreateFormFile("file", form.FileName)
	if err != nil {
		return nil, "", err
	}
	if form.File != nil {
		if _, err := io.Copy(part, form.File); err != nil {
			return nil, "", err
		}
	}

	keys := make([]string, 0, len(form.Fields))
	for k := range form.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, form.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

var _ store.Store = (*Client)(nil)
