package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/pkg/logger"
)

// BaseClient provides common functionality for HTTP clients
type BaseClient struct {
	Logger *slog.Logger
	HTTP   *http.Client
}

// NewBaseClient creates a base client with logger
func NewBaseClient(httpClient *http.Client, lg *slog.Logger) *BaseClient {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &BaseClient{Logger: lg, HTTP: httpClient}
}

// Do sends the request and turns transport failures and non-2xx answers into remote errors.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, internal.NewRemoteError("Erreur de connexion", 0, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, ReadError(resp)
	}
	return resp, nil
}

// DecodeJSON decodes the response body into out and closes it.
func (c *BaseClient) DecodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		c.Logger.Error("failed to decode JSON response", "error", err)
		return &internal.AppError{
			Type:       internal.ErrorTypeRemote,
			Code:       internal.ErrCodeStoreResponse,
			Message:    "invalid response from store",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}
	return nil
}

// SetBearer sets the Authorization header when a token is known.
func SetBearer(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// ReadError builds a remote error from a failed response.
// The server's "message" or "error" field is preferred, then the raw body, then the status code.
func ReadError(resp *http.Response) *internal.AppError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	message := ""
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		message = payload.Message
		if message == "" {
			message = payload.Error
		}
	} else {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = fmt.Sprintf("Erreur %d", resp.StatusCode)
	}

	return internal.NewRemoteError(message, resp.StatusCode, nil)
}
