// Package health reports whether the local storage and the remote Store can be reached.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

type Report struct {
	Status     Status                `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     Status    `json:"status"`
	Message    string    `json:"message,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
	DurationMs int64     `json:"duration_ms"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Check is one named component probe.
type Check func(ctx context.Context) error

type Checker struct {
	checks  map[string]Check
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{checks: make(map[string]Check), timeout: timeout}
}

func (c *Checker) Add(name string, check Check) *Checker {
	c.checks[name] = check
	return c
}

// Run probes every component; the report is unhealthy as soon as one component is.
func (c *Checker) Run(ctx context.Context) Report {
	report := Report{
		Status:     StatusHealthy,
		Components: make(map[string]CheckEntry, len(c.checks)),
	}

	for name, check := range c.checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		err := check(checkCtx)
		cancel()

		entry := CheckEntry{
			Status:     StatusHealthy,
			CheckedAt:  time.Now(),
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			entry.Status = StatusUnhealthy
			entry.Message = err.Error()
			report.Status = StatusUnhealthy
		}
		report.Components[name] = entry
	}

	report.CheckedAt = time.Now()
	return report
}

func PingCheck(p Pinger) Check {
	return func(ctx context.Context) error {
		return p.PingContext(ctx)
	}
}

// HTTPCheck considers the server reachable when it answers below 500.
func HTTPCheck(client *http.Client, url string) Check {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return nil
	}
}
