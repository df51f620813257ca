package events

import (
	"time"

	"github.com/spec-kit/placement-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPostingCreated       EventType = "posting_created"
	EventApplicationSubmitted EventType = "application_submitted"
	EventPostingsClosed       EventType = "postings_closed"
	EventStudentRegistered    EventType = "student_registered"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role    domain.Role `json:"role,omitempty"`
	Subject string      `json:"subject,omitempty"`
}

// SystemActor marks events raised by background jobs.
var SystemActor = Actor{Subject: "system"}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PostingCreatedPayload payload.
type PostingCreatedPayload struct {
	PostingID   string               `json:"posting_id"`
	CompanyName string               `json:"company_name"`
	JobRole     string               `json:"role"`
	Status      domain.PostingStatus `json:"status"`
	Deadline    time.Time            `json:"apply_before"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	ApplicationID string `json:"application_id"`
	PostingID     string `json:"posting_id"`
	CompanyName   string `json:"company_name"`
	StudentID     string `json:"student_id"`
	StudentEmail  string `json:"student_email"`
}

// PostingsClosedPayload payload.
type PostingsClosedPayload struct {
	Cutoff     time.Time `json:"cutoff"`
	PostingIDs []string  `json:"posting_ids"`
}

// StudentRegisteredPayload payload.
type StudentRegisteredPayload struct {
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}
