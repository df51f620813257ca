package dto

import (
	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/service"
)

// CompanyRequest payload for POST /add-company.
type CompanyRequest struct {
	CompanyName         string   `json:"company_name"`
	Role                string   `json:"role"`
	ShortDescription    string   `json:"short_description"`
	DetailedDescription string   `json:"detailed_description"`
	Location            string   `json:"location"`
	Package             int64    `json:"package"`
	ApplyBefore         string   `json:"apply_before"`
	RelatedDocuments    []string `json:"related_documents"`
	CompanyWebsite      *string  `json:"company_website"`
	Status              string   `json:"status"`
	Eligibility         *float64 `json:"eligibility"`
}

// CompanyUpdateRequest payload for PUT /update-company/:id.
type CompanyUpdateRequest struct {
	CompanyName         *string  `json:"company_name"`
	Role                *string  `json:"role"`
	ShortDescription    *string  `json:"short_description"`
	DetailedDescription *string  `json:"detailed_description"`
	Location            *string  `json:"location"`
	Package             *int64   `json:"package"`
	ApplyBefore         *string  `json:"apply_before"`
	RelatedDocuments    []string `json:"related_documents"`
	CompanyWebsite      *string  `json:"company_website"`
	Status              *string  `json:"status"`
	Eligibility         *float64 `json:"eligibility"`
}

// CompanyResponse renders a posting with its deadline as a calendar date.
type CompanyResponse struct {
	ID                  string               `json:"_id"`
	CompanyName         string               `json:"company_name"`
	Role                string               `json:"role"`
	ShortDescription    string               `json:"short_description"`
	DetailedDescription string               `json:"detailed_description"`
	Location            string               `json:"location"`
	Package             int64                `json:"package"`
	ApplyBefore         string               `json:"apply_before"`
	RelatedDocuments    []string             `json:"related_documents"`
	CompanyWebsite      *string              `json:"company_website,omitempty"`
	Status              domain.PostingStatus `json:"status"`
	Eligibility         *float64             `json:"eligibility,omitempty"`
}

// CompanyListResponse is returned by GET /get-all-companies.
type CompanyListResponse struct {
	Companies      []CompanyResponse `json:"companies"`
	CompanyVisited int               `json:"company_visited"`
	HighestPackage int64             `json:"highest_package"`
	AveragePackage float64           `json:"average_package"`
}

// ApplicantsResponse is returned by GET /view-all-applications/:id.
type ApplicantsResponse struct {
	CompanyName       string              `json:"company_name"`
	ApplicationsCount int                 `json:"applications_count"`
	Applicants        []service.Applicant `json:"applicants"`
}

// Company converts a posting.
func Company(p *domain.Posting) CompanyResponse {
	docs := p.RelatedDocuments
	if docs == nil {
		docs = []string{}
	}
	return CompanyResponse{
		ID:                  p.ID,
		CompanyName:         p.CompanyName,
		Role:                p.JobRole,
		ShortDescription:    p.ShortDescription,
		DetailedDescription: p.DetailedDescription,
		Location:            p.Location,
		Package:             p.Package,
		ApplyBefore:         p.Deadline.Format(domain.DateLayout),
		RelatedDocuments:    docs,
		CompanyWebsite:      p.CompanyWebsite,
		Status:              p.Status,
		Eligibility:         p.Eligibility,
	}
}
