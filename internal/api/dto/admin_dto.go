package dto

// NotificationRequest payload for POST /send-notification.
type NotificationRequest struct {
	Message   string `json:"message"`
	StudentID string `json:"student_id"`
}

// AnnouncementRequest payload for POST /announcement/add-announcement.
type AnnouncementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ResourceRequest payload for POST /resources.
type ResourceRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// EditAccessResponse reports a grant or revoke of profile edit access.
type EditAccessResponse struct {
	Message           string   `json:"message"`
	TargetedStudents  any      `json:"targeted_students"`
	InvalidStudentIDs []string `json:"invalid_student_ids,omitempty"`
	ModifiedCount     int64    `json:"modified_count"`
}
