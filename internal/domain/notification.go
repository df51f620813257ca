package domain

import "time"

// Notification is a message addressed to one student.
type Notification struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
}

// Announcement is a public notice posted by an admin.
type Announcement struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AdminID   string    `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityLog records an action a student performed.
type ActivityLog struct {
	ID        string         `json:"id"`
	StudentID string         `json:"student_id"`
	Action    string         `json:"action"`
	Route     string         `json:"route"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"timestamp"`
}

// Resource is a preparation resource listed to students.
type Resource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Kind        string `json:"type"`
}
