// Package testutil provides common test utilities and helpers for spa
// assistant tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/somOone/spa-assistant/internal/models"
)

// FakeSpaClient is a scripted spa backend for dialogue and API tests. It
// returns the configured search results and records every mutation call.
type FakeSpaClient struct {
	Appointments []models.Appointment
	Expenses     []models.Expense
	SearchErr    error
	MutateErr    error

	AppointmentSearches []models.AppointmentCriteria
	ExpenseSearches     []models.ExpenseCriteria
	Deleted             []int
	Completed           []CompletedCall
	Updated             []UpdatedCall
	ExpenseUpdates      []ExpenseUpdateCall
	ExpensesDeleted     []int
}

// CompletedCall records one CompleteAppointment invocation.
type CompletedCall struct {
	ID  int
	Tip float64
}

// UpdatedCall records one UpdateAppointment invocation.
type UpdatedCall struct {
	ID     int
	Update models.AppointmentUpdate
}

// ExpenseUpdateCall records one UpdateExpenseAmount invocation.
type ExpenseUpdateCall struct {
	ID     int
	Amount float64
}

func (f *FakeSpaClient) SearchAppointments(ctx context.Context, criteria models.AppointmentCriteria) ([]models.Appointment, error) {
	f.AppointmentSearches = append(f.AppointmentSearches, criteria)
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return f.Appointments, nil
}

func (f *FakeSpaClient) DeleteAppointment(ctx context.Context, id int) error {
	if f.MutateErr != nil {
		return f.MutateErr
	}
	f.Deleted = append(f.Deleted, id)
	return nil
}

func (f *FakeSpaClient) CompleteAppointment(ctx context.Context, id int, tip float64) error {
	if f.MutateErr != nil {
		return f.MutateErr
	}
	f.Completed = append(f.Completed, CompletedCall{ID: id, Tip: tip})
	return nil
}

func (f *FakeSpaClient) UpdateAppointment(ctx context.Context, id int, update models.AppointmentUpdate) error {
	if f.MutateErr != nil {
		return f.MutateErr
	}
	f.Updated = append(f.Updated, UpdatedCall{ID: id, Update: update})
	return nil
}

func (f *FakeSpaClient) SearchExpenses(ctx context.Context, criteria models.ExpenseCriteria) ([]models.Expense, error) {
	f.ExpenseSearches = append(f.ExpenseSearches, criteria)
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return f.Expenses, nil
}

func (f *FakeSpaClient) UpdateExpenseAmount(ctx context.Context, id int, amount float64) error {
	if f.MutateErr != nil {
		return f.MutateErr
	}
	f.ExpenseUpdates = append(f.ExpenseUpdates, ExpenseUpdateCall{ID: id, Amount: amount})
	return nil
}

func (f *FakeSpaClient) DeleteExpense(ctx context.Context, id int) error {
	if f.MutateErr != nil {
		return f.MutateErr
	}
	f.ExpensesDeleted = append(f.ExpensesDeleted, id)
	return nil
}

// FakeNotifier records SMS notifications sent during a test.
type FakeNotifier struct {
	Sent []SentNotification
	Err  error
}

// SentNotification is one recorded notification.
type SentNotification struct {
	To   string
	Body string
}

func (f *FakeNotifier) SendMessage(ctx context.Context, to string, body string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, SentNotification{To: to, Body: body})
	return nil
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it
// doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONResponse decodes JSON response and validates the status field.
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}

	if status, ok := response["status"].(string); ok {
		if status != expectedStatus {
			t.Errorf("expected status '%s', got '%s'", expectedStatus, status)
		}
	} else {
		t.Error("response missing or invalid 'status' field")
	}

	return response
}

// CreateHTTPRequest creates an HTTP request with optional JSON body for
// testing.
func CreateHTTPRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	return req
}

// MustMarshalJSON marshals an object to JSON and fails test on error.
func MustMarshalJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return data
}
