// Package models defines wire types for the spa backend API.
//
// Appointments and expenses are owned by the remote backend; the assistant only
// searches them and requests mutations. They are the single source of truth and
// must never be cached beyond the current turn.
package models

// Appointment status values used by the remote API.
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusCompleted = "completed"
)

// Appointment mirrors the remote appointment object.
type Appointment struct {
	ID       int     `json:"id"`
	Client   string  `json:"client"`
	Phone    string  `json:"phone,omitempty"` // optional, used for SMS notifications when present
	Time     string  `json:"time"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Payment  float64 `json:"payment"`
	Tip      float64 `json:"tip"`
	Status   string  `json:"status"`
}

// Expense mirrors the remote expense object.
type Expense struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	CategoryID  int     `json:"category_id"`
}

// AppointmentCriteria are the search parameters extracted from a chat message.
// Year is optional; empty means "infer from context downstream" (the backend
// defaults it to the current year).
type AppointmentCriteria struct {
	Client string
	Time   string
	Date   string
	Year   string
	Status string
}

// ExpenseCriteria are the expense search parameters extracted from a chat message.
type ExpenseCriteria struct {
	Description string
	Date        string
	Year        string
}

// AppointmentUpdate is the PUT body for appointment edits. Only non-zero fields
// are sent.
type AppointmentUpdate struct {
	Category string  `json:"category,omitempty"`
	Payment  float64 `json:"payment,omitempty"`
	Reason   string  `json:"update_reason,omitempty"`
}
