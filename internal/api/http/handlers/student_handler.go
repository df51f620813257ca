package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-service/internal/api/dto"
	"github.com/spec-kit/placement-service/internal/auth"
	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/service"
	"github.com/spec-kit/placement-service/internal/storage"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// StudentHandler serves the authenticated student's own endpoints.
type StudentHandler struct {
	students      *service.StudentService
	applications  *service.ApplicationService
	notifications *service.NotificationService
	maxUpload     int64
}

// NewStudentHandler constructs handler.
func NewStudentHandler(students *service.StudentService, applications *service.ApplicationService, notifications *service.NotificationService, maxUpload int64) *StudentHandler {
	return &StudentHandler{students: students, applications: applications, notifications: notifications, maxUpload: maxUpload}
}

// Profile GET /profile.
func (h *StudentHandler) Profile(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	profile, err := h.students.Profile(c.UserContext(), student.StudentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// UpdatePersonalDetails PUT /update-personal-details.
func (h *StudentHandler) UpdatePersonalDetails(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	var req dto.PersonalDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	err = h.students.UpdatePersonalDetails(c.UserContext(), student.StudentID, service.PersonalDetails{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		FatherName:  req.FatherName,
		MotherName:  req.MotherName,
		DateOfBirth: req.DateOfBirth,
		Branch:      req.Branch,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Personal details updated successfully"})
}

// UpdateEducation PUT /update-education-details.
func (h *StudentHandler) UpdateEducation(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	var req dto.EducationDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	cgpa, err := h.students.UpdateEducation(c.UserContext(), student.StudentID, service.EducationDetails{
		Tenth:     req.TenthDetails,
		Twelfth:   req.Twelfth(),
		Semesters: req.SemesterDetails,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.EducationResponse{Message: "Education details updated successfully", OverallCGPA: cgpa})
}

// UpdateProfile PUT /update-profile.
func (h *StudentHandler) UpdateProfile(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	applied, err := h.students.UpdateProfile(c.UserContext(), student.StudentID, service.ProfileUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Contact:     req.Contact,
		FatherName:  req.FatherName,
		MotherName:  req.MotherName,
		DateOfBirth: req.DateOfBirth,
		Branch:      req.Branch,
		Tenth:       req.TenthDetails,
		Twelfth:     req.TwelfthDetails,
		Semesters:   req.SemesterDetails,
		Internships: req.Internships,
	})
	if err != nil {
		return err
	}
	if !applied {
		return c.JSON(dto.MessageResponse{Message: service.EditAccessDenied})
	}
	return c.JSON(dto.MessageResponse{Message: "Profile updated successfully"})
}

// UploadResume POST /upload-resume.
func (h *StudentHandler) UploadResume(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", nil)
	}
	obj, closer, err := openUpload(fh, h.maxUpload)
	if err != nil {
		return err
	}
	defer closer.Close()

	url, err := h.students.UploadResume(c.UserContext(), student.StudentID, obj)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Resume uploaded successfully", "resume_url": url})
}

// GetResume GET /get-resume.
func (h *StudentHandler) GetResume(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	url, err := h.students.Resume(c.UserContext(), student.StudentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"resume_url": url})
}

// AddInternship PUT /add-internship, multipart with optional certificate files.
func (h *StudentHandler) AddInternship(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	var skills []string
	if raw := strings.TrimSpace(c.FormValue("skills")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &skills); err != nil {
			skills = splitCSV(raw)
		}
	}

	uploads := &uploadSet{}
	defer uploads.Close()
	certs, err := uploads.openAll(multipartFiles(c, "files"), h.maxUpload)
	if err != nil {
		return err
	}

	urls, err := h.students.AddInternship(c.UserContext(), student.StudentID, service.InternshipInput{
		Organization: c.FormValue("organization"),
		StartDate:    c.FormValue("start_date"),
		EndDate:      c.FormValue("end_date"),
		Skills:       skills,
		Certificates: certs,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Internship added successfully with certificates", "certificate_urls": urls})
}

// UploadMarksheets PUT /upload-marksheets.
func (h *StudentHandler) UploadMarksheets(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	uploads := &uploadSet{}
	defer uploads.Close()

	single := func(field string) (*storage.Object, error) {
		files := multipartFiles(c, field)
		if len(files) == 0 {
			return nil, nil
		}
		obj, err := uploads.open(files[0], h.maxUpload)
		if err != nil {
			return nil, err
		}
		return &obj, nil
	}
	list := func(field string) ([]*storage.Object, error) {
		objs, err := uploads.openAll(multipartFiles(c, field), h.maxUpload)
		if err != nil {
			return nil, err
		}
		out := make([]*storage.Object, len(objs))
		for i := range objs {
			out[i] = &objs[i]
		}
		return out, nil
	}

	var in service.MarksheetUploads
	if in.Tenth, err = single("tenth_marksheet"); err != nil {
		return err
	}
	if in.Twelfth, err = single("twelfth_marksheet"); err != nil {
		return err
	}
	if in.TenthAttested, err = single("tenth_attested_marksheet"); err != nil {
		return err
	}
	if in.TwelfthAttested, err = single("twelfth_attested_marksheet"); err != nil {
		return err
	}
	if in.Semesters, err = list("semester_marksheets"); err != nil {
		return err
	}
	if in.SemestersAttested, err = list("semester_attested_marksheets"); err != nil {
		return err
	}

	urls, err := h.students.UploadMarksheets(c.UserContext(), student.StudentID, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Marksheets uploaded and URLs saved successfully", "marksheet_urls": urls})
}

// ApplyJob POST /apply-job?company_id=.
func (h *StudentHandler) ApplyJob(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	var req dto.ApplyJobRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	_, err = h.applications.Apply(c.UserContext(), student, c.Query("company_id"), service.ApplicationInput{
		ResumeLink:       req.ResumeLink,
		Skills:           req.Skills,
		Projects:         req.Projects,
		GithubProfile:    req.GithubProfile,
		PortfolioWebsite: req.PortfolioWebsite,
		AdditionalInfo:   req.AdditionalInfo,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Application submitted successfully."})
}

// MyApplications GET /my-applications.
func (h *StudentHandler) MyApplications(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	applied, err := h.applications.ForStudent(c.UserContext(), student.StudentID)
	if err != nil {
		return err
	}
	items := make([]dto.AppliedCompany, 0, len(applied))
	for _, a := range applied {
		items = append(items, dto.AppliedCompany{
			CompanyID:   a.Posting.ID,
			CompanyName: a.Posting.CompanyName,
			Role:        a.Posting.JobRole,
			Package:     a.Posting.Package,
			Status:      a.Application.Status,
			AppliedOn:   a.Application.AppliedOn.Format(domain.DateLayout),
		})
	}
	return c.JSON(fiber.Map{"applications": items})
}

// MyActivities GET /my-activities.
func (h *StudentHandler) MyActivities(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	logs, err := h.students.Activities(c.UserContext(), student.StudentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"activities": logs})
}

// Notifications GET /notifications.
func (h *StudentHandler) Notifications(c *fiber.Ctx) error {
	student, err := auth.CurrentStudent(c)
	if err != nil {
		return err
	}
	items, err := h.notifications.ListForStudent(c.UserContext(), student.StudentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"notifications": items})
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
