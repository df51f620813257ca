package domain

import "time"

// PlacementStatus tracks whether a student has been placed.
type PlacementStatus string

const (
	PlacementUnplaced PlacementStatus = "unplaced"
	PlacementPlaced   PlacementStatus = "placed"
)

// Student is a self-registered principal. StudentID is the business identifier.
type Student struct {
	StudentID       string          `json:"student_id"`
	Email           string          `json:"email"`
	PasswordHash    string          `json:"-"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Contact         string          `json:"contact"`
	Role            Role            `json:"role"`
	PlacementStatus PlacementStatus `json:"status"`
	CanEditProfile  bool            `json:"can_edit_profile"`
	CurrentStep     int             `json:"current_step"`
	IsStepCompleted bool            `json:"is_step_completed"`
	IsEligible      bool            `json:"is_eligible"`
	OverallCGPA     *float64        `json:"overall_cgpa,omitempty"`
	ResumeLink      *string         `json:"resume_link,omitempty"`
	Profile         StudentProfile  `json:"profile"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// StudentProfile holds the free-form profile sections stored alongside a student.
type StudentProfile struct {
	Branch          string           `json:"branch,omitempty"`
	FatherName      string           `json:"father_name,omitempty"`
	MotherName      string           `json:"mother_name,omitempty"`
	DateOfBirth     *time.Time       `json:"date_of_birth,omitempty"`
	TenthDetails    *SchoolDetails   `json:"tenth_details,omitempty"`
	TwelfthDetails  *SchoolDetails   `json:"twelfth_details,omitempty"`
	SemesterDetails []SemesterDetail `json:"semester_details,omitempty"`
	Internships     []Internship     `json:"internships,omitempty"`
}

// SchoolDetails describes a secondary school result.
type SchoolDetails struct {
	SchoolLocation       string  `json:"school_location"`
	Percentage           float64 `json:"percentage"`
	Board                string  `json:"board"`
	YearOfPassing        int     `json:"year_of_passing"`
	MarksheetURL         string  `json:"marksheet_url,omitempty"`
	AttestedMarksheetURL string  `json:"attested_marksheet_url,omitempty"`
}

// SemesterDetail describes one university semester result.
type SemesterDetail struct {
	Semester             int     `json:"semester"`
	CGPA                 float64 `json:"cgpa"`
	Backlogs             int     `json:"no_backlogs"`
	MarksheetURL         string  `json:"marksheet_url,omitempty"`
	AttestedMarksheetURL string  `json:"attested_marksheet_url,omitempty"`
}

// Internship is a completed internship with optional certificate links.
type Internship struct {
	Organization string    `json:"organization"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Certificates []string  `json:"certificates,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
}

// Redacted returns a copy that is safe to hand to clients.
func (s Student) Redacted() Student {
	s.PasswordHash = ""
	return s
}
