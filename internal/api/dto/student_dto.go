package dto

import "github.com/spec-kit/placement-service/internal/domain"

// PersonalDetailsRequest payload for PUT /update-personal-details.
type PersonalDetailsRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FatherName  string `json:"father_name"`
	MotherName  string `json:"mother_name"`
	DateOfBirth string `json:"date_of_birth"`
	Branch      string `json:"branch"`
}

// EducationDetailsRequest payload for PUT /update-education-details.
// twelth_details is accepted as a legacy spelling.
type EducationDetailsRequest struct {
	TenthDetails    domain.SchoolDetails    `json:"tenth_details"`
	TwelfthDetails  *domain.SchoolDetails   `json:"twelfth_details"`
	TwelthDetails   *domain.SchoolDetails   `json:"twelth_details"`
	SemesterDetails []domain.SemesterDetail `json:"semester_details"`
}

// Twelfth resolves either spelling of the twelfth-grade section.
func (r EducationDetailsRequest) Twelfth() domain.SchoolDetails {
	switch {
	case r.TwelfthDetails != nil:
		return *r.TwelfthDetails
	case r.TwelthDetails != nil:
		return *r.TwelthDetails
	default:
		return domain.SchoolDetails{}
	}
}

// EducationResponse is returned after an education update.
type EducationResponse struct {
	Message     string  `json:"message"`
	OverallCGPA float64 `json:"overall_cgpa"`
}

// ProfileUpdateRequest payload for PUT /update-profile; absent fields are left unchanged.
type ProfileUpdateRequest struct {
	FirstName       *string                 `json:"first_name"`
	LastName        *string                 `json:"last_name"`
	Contact         *string                 `json:"contact"`
	FatherName      *string                 `json:"father_name"`
	MotherName      *string                 `json:"mother_name"`
	DateOfBirth     *string                 `json:"date_of_birth"`
	Branch          *string                 `json:"branch"`
	TenthDetails    *domain.SchoolDetails   `json:"tenth_details"`
	TwelfthDetails  *domain.SchoolDetails   `json:"twelfth_details"`
	SemesterDetails []domain.SemesterDetail `json:"semester_details"`
	Internships     []domain.Internship     `json:"internships"`
}

// ApplyJobRequest is the optional body of POST /apply-job.
type ApplyJobRequest struct {
	ResumeLink       string   `json:"resume_link"`
	Skills           []string `json:"skills"`
	Projects         []string `json:"projects"`
	GithubProfile    *string  `json:"github_profile"`
	PortfolioWebsite *string  `json:"portfolio_website"`
	AdditionalInfo   *string  `json:"additional_info"`
}

// AppliedCompany is one entry of GET /my-applications.
type AppliedCompany struct {
	CompanyID   string                   `json:"company_id"`
	CompanyName string                   `json:"company_name"`
	Role        string                   `json:"role"`
	Package     int64                    `json:"package"`
	Status      domain.ApplicationStatus `json:"status"`
	AppliedOn   string                   `json:"applied_on"`
}
