// Package spaapi provides the HTTP client for the spa backend's appointment
// and expense API.
//
// The backend is an opaque collaborator and the single source of truth: this
// client only searches and requests mutations, and nothing it returns may be
// cached beyond the current chat turn.
package spaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/somOone/spa-assistant/internal/models"
)

// DefaultTimeout bounds every remote call so a hung backend cannot strand a
// pending workflow.
const DefaultTimeout = 15 * time.Second

// ValidationError carries a backend-provided message for a 400 response. The
// message is shown to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Opts holds configuration options for the spa API client.
type Opts struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Option defines a configuration option for the spa API client.
type Option func(*Opts)

// WithBaseURL sets the backend base URL (e.g. "http://localhost:5000/api").
func WithBaseURL(baseURL string) Option {
	return func(o *Opts) { o.BaseURL = baseURL }
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// WithHTTPClient injects a custom HTTP client (used by tests).
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) { o.HTTPClient = c }
}

// Client talks to the spa backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a spa API client.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("spa API base URL not set")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	slog.Debug("spaapi.NewClient: client created", "base_url", cfg.BaseURL, "timeout", cfg.Timeout)
	return &Client{baseURL: cfg.BaseURL, http: httpClient}, nil
}

// SearchAppointments queries appointments by the extracted chat criteria. An
// empty slice means not found.
func (c *Client) SearchAppointments(ctx context.Context, criteria models.AppointmentCriteria) ([]models.Appointment, error) {
	query := url.Values{}
	query.Set("clientName", criteria.Client)
	query.Set("time", criteria.Time)
	query.Set("date", criteria.Date)
	if criteria.Year != "" {
		query.Set("year", criteria.Year)
	}
	if criteria.Status != "" {
		query.Set("status", criteria.Status)
	}

	var appointments []models.Appointment
	if err := c.getJSON(ctx, "/appointments/search?"+query.Encode(), &appointments); err != nil {
		return nil, err
	}
	slog.Debug("spaapi.SearchAppointments: search completed", "client", criteria.Client, "results", len(appointments))
	return appointments, nil
}

// DeleteAppointment cancels an appointment.
func (c *Client) DeleteAppointment(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/appointments/"+strconv.Itoa(id), nil)
}

// CompleteAppointment marks an appointment completed with the collected tip.
func (c *Client) CompleteAppointment(ctx context.Context, id int, tip float64) error {
	body := map[string]float64{"tip": tip}
	return c.do(ctx, http.MethodPatch, "/appointments/"+strconv.Itoa(id)+"/complete", body)
}

// UpdateAppointment applies a category/payment edit to an appointment.
func (c *Client) UpdateAppointment(ctx context.Context, id int, update models.AppointmentUpdate) error {
	return c.do(ctx, http.MethodPut, "/appointments/"+strconv.Itoa(id), update)
}

// SearchExpenses queries expenses by free-text description plus optional
// parsed date and year.
func (c *Client) SearchExpenses(ctx context.Context, criteria models.ExpenseCriteria) ([]models.Expense, error) {
	query := url.Values{}
	query.Set("description", criteria.Description)
	if criteria.Date != "" {
		query.Set("date", criteria.Date)
	}
	if criteria.Year != "" {
		query.Set("year", criteria.Year)
	}

	var expenses []models.Expense
	if err := c.getJSON(ctx, "/expenses/search?"+query.Encode(), &expenses); err != nil {
		return nil, err
	}
	slog.Debug("spaapi.SearchExpenses: search completed", "description", criteria.Description, "results", len(expenses))
	return expenses, nil
}

// UpdateExpenseAmount changes the dollar amount of an expense.
func (c *Client) UpdateExpenseAmount(ctx context.Context, id int, amount float64) error {
	body := map[string]float64{"amount": amount}
	return c.do(ctx, http.MethodPut, "/expenses/"+strconv.Itoa(id), body)
}

// DeleteExpense removes an expense.
func (c *Client) DeleteExpense(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/expenses/"+strconv.Itoa(id), nil)
}

// getJSON performs a GET and decodes a JSON array response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("spaapi.getJSON: request failed", "path", path, "error", err)
		return fmt.Errorf("spa API request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode spa API response: %w", err)
	}
	return nil
}

// do performs a mutating request with an optional JSON body, discarding any
// response payload.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("spaapi.do: request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("spa API request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		slog.Error("spaapi.do: request rejected", "method", method, "path", path, "error", err)
		return err
	}
	io.Copy(io.Discard, resp.Body)
	slog.Debug("spaapi.do: request succeeded", "method", method, "path", path, "status", resp.StatusCode)
	return nil
}

// checkStatus converts non-2xx responses into errors. 400 responses carry a
// JSON {message} surfaced verbatim as a ValidationError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusBadRequest {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
			return &ValidationError{Message: payload.Message}
		}
		return &ValidationError{Message: "invalid request"}
	}
	return fmt.Errorf("spa API returned status %d", resp.StatusCode)
}
