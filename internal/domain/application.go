package domain

import "time"

// ApplicationStatus enumerates job application states.
type ApplicationStatus string

const ApplicationApplied ApplicationStatus = "Applied"

// Application is a student's application to a posting.
type Application struct {
	ID               string            `json:"id"`
	StudentID        string            `json:"student_id"`
	PostingID        string            `json:"company_id"`
	ResumeLink       string            `json:"resume_link"`
	Skills           []string          `json:"skills"`
	Projects         []string          `json:"projects"`
	GithubProfile    *string           `json:"github_profile,omitempty"`
	PortfolioWebsite *string           `json:"portfolio_website,omitempty"`
	AdditionalInfo   *string           `json:"additional_info,omitempty"`
	Status           ApplicationStatus `json:"status"`
	AppliedOn        time.Time         `json:"applied_on"`
}
