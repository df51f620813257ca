package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-service/internal/api/dto"
	"github.com/spec-kit/placement-service/internal/auth"
	"github.com/spec-kit/placement-service/internal/service"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// CompanyHandler serves company postings.
type CompanyHandler struct {
	postings  *service.PostingService
	maxUpload int64
}

// NewCompanyHandler constructs handler.
func NewCompanyHandler(postings *service.PostingService, maxUpload int64) *CompanyHandler {
	return &CompanyHandler{postings: postings, maxUpload: maxUpload}
}

// AddCompany POST /add-company.
func (h *CompanyHandler) AddCompany(c *fiber.Ctx) error {
	admin, err := auth.CurrentAdmin(c)
	if err != nil {
		return err
	}
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	posting, err := h.postings.Create(c.UserContext(), admin, service.PostingInput{
		CompanyName:         req.CompanyName,
		JobRole:             req.Role,
		ShortDescription:    req.ShortDescription,
		DetailedDescription: req.DetailedDescription,
		Location:            req.Location,
		Package:             req.Package,
		Deadline:            req.ApplyBefore,
		RelatedDocuments:    req.RelatedDocuments,
		CompanyWebsite:      req.CompanyWebsite,
		Status:              req.Status,
		Eligibility:         req.Eligibility,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Company added successfully",
		"company_id": posting.ID,
		"status":     posting.Status,
	})
}

// UpdateCompany PUT /update-company/:id.
func (h *CompanyHandler) UpdateCompany(c *fiber.Ctx) error {
	var req dto.CompanyUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	posting, err := h.postings.Update(c.UserContext(), c.Params("id"), service.PostingUpdate{
		CompanyName:         req.CompanyName,
		JobRole:             req.Role,
		ShortDescription:    req.ShortDescription,
		DetailedDescription: req.DetailedDescription,
		Location:            req.Location,
		Package:             req.Package,
		Deadline:            req.ApplyBefore,
		RelatedDocuments:    req.RelatedDocuments,
		CompanyWebsite:      req.CompanyWebsite,
		Status:              req.Status,
		Eligibility:         req.Eligibility,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Company updated successfully", "company": dto.Company(posting)})
}

// UploadDocuments PUT /upload-documents/:id.
func (h *CompanyHandler) UploadDocuments(c *fiber.Ctx) error {
	uploads := &uploadSet{}
	defer uploads.Close()
	files, err := uploads.openAll(multipartFiles(c, "files"), h.maxUpload)
	if err != nil {
		return err
	}
	urls, err := h.postings.UploadDocuments(c.UserContext(), c.Params("id"), files)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Documents uploaded successfully", "files": urls})
}

// ListCompanies GET /get-all-companies.
func (h *CompanyHandler) ListCompanies(c *fiber.Ctx) error {
	summary, err := h.postings.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := dto.CompanyListResponse{
		Companies:      make([]dto.CompanyResponse, 0, len(summary.Postings)),
		CompanyVisited: summary.CompanyVisited,
		HighestPackage: summary.HighestPackage,
		AveragePackage: summary.AveragePackage,
	}
	for i := range summary.Postings {
		resp.Companies = append(resp.Companies, dto.Company(&summary.Postings[i]))
	}
	return c.JSON(resp)
}

// GetCompany GET /get-company/:id.
func (h *CompanyHandler) GetCompany(c *fiber.Ctx) error {
	posting, err := h.postings.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"company": dto.Company(posting)})
}

// ViewApplications GET /view-all-applications/:id.
func (h *CompanyHandler) ViewApplications(c *fiber.Ctx) error {
	posting, applicants, err := h.postings.Applicants(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ApplicantsResponse{
		CompanyName:       posting.CompanyName,
		ApplicationsCount: len(applicants),
		Applicants:        applicants,
	})
}
