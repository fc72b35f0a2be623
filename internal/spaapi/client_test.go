package spaapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/somOone/spa-assistant/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(); err == nil {
		t.Error("NewClient() without base URL should fail")
	}
}

func TestSearchAppointments(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode([]models.Appointment{
			{ID: 7, Client: "John", Time: "2:00 PM", Date: "August 19th", Status: models.AppointmentStatusPending},
		})
	})

	criteria := models.AppointmentCriteria{
		Client: "john",
		Time:   "2:00 pm",
		Date:   "august 19th",
		Year:   "2025",
		Status: models.AppointmentStatusPending,
	}
	appointments, err := client.SearchAppointments(context.Background(), criteria)
	if err != nil {
		t.Fatalf("SearchAppointments: %v", err)
	}
	if len(appointments) != 1 || appointments[0].ID != 7 {
		t.Errorf("appointments = %+v", appointments)
	}

	if gotPath != "/appointments/search" {
		t.Errorf("path = %q, want /appointments/search", gotPath)
	}
	wantQuery := map[string]string{
		"clientName": "john",
		"time":       "2:00 pm",
		"date":       "august 19th",
		"year":       "2025",
		"status":     "pending",
	}
	for key, want := range wantQuery {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Errorf("query[%q] = %v, want %q", key, got, want)
		}
	}
}

func TestSearchAppointmentsOmitsEmptyOptionals(t *testing.T) {
	var gotQuery map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte("[]"))
	})

	_, err := client.SearchAppointments(context.Background(), models.AppointmentCriteria{
		Client: "john", Time: "2:00 pm", Date: "august 19th",
	})
	if err != nil {
		t.Fatalf("SearchAppointments: %v", err)
	}
	for _, key := range []string{"year", "status"} {
		if _, present := gotQuery[key]; present {
			t.Errorf("query contains %q, want it omitted when empty", key)
		}
	}
}

func TestCompleteAppointment(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]float64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
	})

	if err := client.CompleteAppointment(context.Background(), 9, 20.5); err != nil {
		t.Fatalf("CompleteAppointment: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/appointments/9/complete" {
		t.Errorf("request = %s %s, want PATCH /appointments/9/complete", gotMethod, gotPath)
	}
	if gotBody["tip"] != 20.5 {
		t.Errorf("body = %v, want tip 20.5", gotBody)
	}
}

func TestDeleteAppointment(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
	})

	if err := client.DeleteAppointment(context.Background(), 7); err != nil {
		t.Fatalf("DeleteAppointment: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/appointments/7" {
		t.Errorf("request = %s %s, want DELETE /appointments/7", gotMethod, gotPath)
	}
}

func TestUpdateAppointment(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody models.AppointmentUpdate
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
	})

	update := models.AppointmentUpdate{Category: models.CategoryMassage, Payment: 120, Reason: "client asked"}
	if err := client.UpdateAppointment(context.Background(), 4, update); err != nil {
		t.Fatalf("UpdateAppointment: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/appointments/4" {
		t.Errorf("request = %s %s, want PUT /appointments/4", gotMethod, gotPath)
	}
	if gotBody != update {
		t.Errorf("body = %+v, want %+v", gotBody, update)
	}
}

func TestSearchExpenses(t *testing.T) {
	var gotQuery map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode([]models.Expense{{ID: 12, Description: "office supplies", Amount: 30}})
	})

	expenses, err := client.SearchExpenses(context.Background(), models.ExpenseCriteria{
		Description: "office supplies", Date: "march 14th", Year: "2025",
	})
	if err != nil {
		t.Fatalf("SearchExpenses: %v", err)
	}
	if len(expenses) != 1 || expenses[0].ID != 12 {
		t.Errorf("expenses = %+v", expenses)
	}
	if got := gotQuery["description"]; len(got) != 1 || got[0] != "office supplies" {
		t.Errorf("query[description] = %v", got)
	}
	if got := gotQuery["date"]; len(got) != 1 || got[0] != "march 14th" {
		t.Errorf("query[date] = %v", got)
	}
	if got := gotQuery["year"]; len(got) != 1 || got[0] != "2025" {
		t.Errorf("query[year] = %v", got)
	}
}

func TestUpdateExpenseAmount(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]float64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
	})

	if err := client.UpdateExpenseAmount(context.Background(), 12, 45); err != nil {
		t.Fatalf("UpdateExpenseAmount: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/expenses/12" {
		t.Errorf("request = %s %s, want PUT /expenses/12", gotMethod, gotPath)
	}
	if gotBody["amount"] != 45 {
		t.Errorf("body = %v, want amount 45", gotBody)
	}
}

func TestValidationErrorSurfacesMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "date is required"}`))
	})

	err := client.DeleteAppointment(context.Background(), 7)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if validationErr.Message != "date is required" {
		t.Errorf("message = %q, want the backend message verbatim", validationErr.Message)
	}
}

func TestValidationErrorFallbackMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("not json"))
	})

	err := client.DeleteAppointment(context.Background(), 7)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if validationErr.Message != "invalid request" {
		t.Errorf("message = %q, want fallback", validationErr.Message)
	}
}

func TestServerErrorIsGeneric(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.DeleteAppointment(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		t.Errorf("error = %v, want a non-validation error", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error = %v, want status code in message", err)
	}
}
