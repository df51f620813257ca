package service

import (
	"context"
	"errors"
	"math"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository"
	"github.com/spec-kit/placement-service/internal/storage"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

const (
	minEligibleCGPA       = 6.0
	minEligiblePercentage = 60.0
	minInternshipDays     = 30
)

// EditAccessDenied is returned as a message, not an error, when an admin has not unlocked the profile.
const EditAccessDenied = "Admin has not given access to update the profile."

var resumeExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

// StudentService manages the student's own profile.
type StudentService struct {
	students repository.StudentRepository
	objects  storage.ObjectStore
	activity *ActivityRecorder
	logger   *zap.Logger
}

// StudentDependencies bundles collaborators for the student service.
type StudentDependencies struct {
	Students repository.StudentRepository
	Objects  storage.ObjectStore
	Activity *ActivityRecorder
	Logger   *zap.Logger
}

// NewStudentService builds the service.
func NewStudentService(deps StudentDependencies) *StudentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students: deps.Students,
		objects:  deps.Objects,
		activity: deps.Activity,
		logger:   logger.With(zap.String("component", "students")),
	}
}

// PersonalDetails is the first onboarding step.
type PersonalDetails struct {
	FirstName   string
	LastName    string
	FatherName  string
	MotherName  string
	DateOfBirth string
	Branch      string
}

// EducationDetails is the second onboarding step.
type EducationDetails struct {
	Tenth     domain.SchoolDetails
	Twelfth   domain.SchoolDetails
	Semesters []domain.SemesterDetail
}

// ProfileUpdate is an admin-unlocked partial profile edit; nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Contact     *string
	FatherName  *string
	MotherName  *string
	DateOfBirth *string
	Branch      *string
	Tenth       *domain.SchoolDetails
	Twelfth     *domain.SchoolDetails
	Semesters   []domain.SemesterDetail
	Internships []domain.Internship
}

// InternshipInput describes an internship and its certificate files.
type InternshipInput struct {
	Organization string
	StartDate    string
	EndDate      string
	Skills       []string
	Certificates []storage.Object
}

// MarksheetUploads groups optional marksheet files. Semester slices are positional.
type MarksheetUploads struct {
	Tenth             *storage.Object
	Twelfth           *storage.Object
	TenthAttested     *storage.Object
	TwelfthAttested   *storage.Object
	Semesters         []*storage.Object
	SemestersAttested []*storage.Object
}

// MarksheetURLs reports the stored marksheet locations after an upload.
type MarksheetURLs struct {
	Tenth             string   `json:"tenth_marksheet_url,omitempty"`
	Twelfth           string   `json:"twelfth_marksheet_url,omitempty"`
	TenthAttested     string   `json:"tenth_attested_marksheet_url,omitempty"`
	TwelfthAttested   string   `json:"twelfth_attested_marksheet_url,omitempty"`
	Semesters         []string `json:"semester_marksheets_urls"`
	SemestersAttested []string `json:"semester_attested_marksheets_urls"`
}

// Profile returns the student's redacted record.
func (s *StudentService) Profile(ctx context.Context, studentID string) (*domain.Student, error) {
	student, err := s.load(ctx, studentID)
	if err != nil {
		return nil, err
	}
	redacted := student.Redacted()
	return &redacted, nil
}

// UpdatePersonalDetails stores step one and advances the student to step two.
func (s *StudentService) UpdatePersonalDetails(ctx context.Context, studentID string, in PersonalDetails) error {
	details := map[string]any{}
	if strings.TrimSpace(in.FirstName) == "" {
		details["first_name"] = "required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		details["last_name"] = "required"
	}
	if strings.TrimSpace(in.Branch) == "" {
		details["branch"] = "required"
	}
	dob, err := time.Parse(domain.DateLayout, strings.TrimSpace(in.DateOfBirth))
	if err != nil {
		details["date_of_birth"] = "must be a YYYY-MM-DD date"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid personal details", details)
	}

	student, err := s.load(ctx, studentID)
	if err != nil {
		return err
	}
	student.FirstName = strings.TrimSpace(in.FirstName)
	student.LastName = strings.TrimSpace(in.LastName)
	student.Profile.FatherName = strings.TrimSpace(in.FatherName)
	student.Profile.MotherName = strings.TrimSpace(in.MotherName)
	student.Profile.DateOfBirth = &dob
	student.Profile.Branch = strings.TrimSpace(in.Branch)
	student.CurrentStep = 2
	if err := s.save(ctx, student); err != nil {
		return err
	}

	s.activity.Record(ctx, studentID, "Updated personal details", "/update-personal-details", map[string]any{
		"updated_fields": []string{"first_name", "last_name", "father_name", "mother_name", "date_of_birth", "branch"},
	})
	return nil
}

// UpdateEducation stores step two, recomputes the overall CGPA and eligibility,
// and returns the new CGPA.
func (s *StudentService) UpdateEducation(ctx context.Context, studentID string, in EducationDetails) (float64, error) {
	if err := validateEducation(in.Tenth, in.Twelfth, in.Semesters); err != nil {
		return 0, err
	}
	student, err := s.load(ctx, studentID)
	if err != nil {
		return 0, err
	}

	tenth, twelfth := in.Tenth, in.Twelfth
	student.Profile.TenthDetails = &tenth
	student.Profile.TwelfthDetails = &twelfth
	student.Profile.SemesterDetails = in.Semesters
	cgpa := applyAcademics(student)
	student.CurrentStep = 3
	student.IsStepCompleted = true
	if err := s.save(ctx, student); err != nil {
		return 0, err
	}

	s.activity.Record(ctx, studentID, "Updated education details", "/update-education-details", map[string]any{
		"updated_fields": []string{"tenth_details", "twelfth_details", "semester_details", "overall_cgpa"},
	})
	return cgpa, nil
}

// UpdateProfile applies an edit the admin unlocked. When editing is locked it
// returns false and leaves the record unchanged. A successful edit consumes the grant.
func (s *StudentService) UpdateProfile(ctx context.Context, studentID string, in ProfileUpdate) (bool, error) {
	student, err := s.load(ctx, studentID)
	if err != nil {
		return false, err
	}
	if !student.CanEditProfile {
		return false, nil
	}

	details := map[string]any{}
	var updated []string
	setString := func(field string, dst *string, src *string) {
		if src == nil {
			return
		}
		*dst = strings.TrimSpace(*src)
		updated = append(updated, field)
	}
	setString("first_name", &student.FirstName, in.FirstName)
	setString("last_name", &student.LastName, in.LastName)
	setString("father_name", &student.Profile.FatherName, in.FatherName)
	setString("mother_name", &student.Profile.MotherName, in.MotherName)
	setString("branch", &student.Profile.Branch, in.Branch)
	if in.Contact != nil {
		if !contactPattern.MatchString(strings.TrimSpace(*in.Contact)) {
			details["contact"] = "must be exactly 10 digits"
		}
		setString("contact", &student.Contact, in.Contact)
	}
	if in.DateOfBirth != nil {
		dob, err := time.Parse(domain.DateLayout, strings.TrimSpace(*in.DateOfBirth))
		if err != nil {
			details["date_of_birth"] = "must be a YYYY-MM-DD date"
		}
		student.Profile.DateOfBirth = &dob
		updated = append(updated, "date_of_birth")
	}
	if in.Internships != nil {
		for i, internship := range in.Internships {
			if err := validateInternshipDates(internship.StartDate, internship.EndDate); err != "" {
				details["internships"] = map[string]any{"index": i, "error": err}
			}
		}
		student.Profile.Internships = in.Internships
		updated = append(updated, "internships")
	}

	academics := false
	if in.Tenth != nil {
		tenth := *in.Tenth
		student.Profile.TenthDetails = &tenth
		updated = append(updated, "tenth_details")
		academics = true
	}
	if in.Twelfth != nil {
		twelfth := *in.Twelfth
		student.Profile.TwelfthDetails = &twelfth
		updated = append(updated, "twelfth_details")
		academics = true
	}
	if in.Semesters != nil {
		student.Profile.SemesterDetails = in.Semesters
		updated = append(updated, "semester_details")
		academics = true
	}
	if academics {
		var tenth, twelfth domain.SchoolDetails
		if student.Profile.TenthDetails != nil {
			tenth = *student.Profile.TenthDetails
		}
		if student.Profile.TwelfthDetails != nil {
			twelfth = *student.Profile.TwelfthDetails
		}
		if err := validateEducation(tenth, twelfth, student.Profile.SemesterDetails); err != nil {
			return false, err
		}
		applyAcademics(student)
	}
	if len(details) > 0 {
		return false, apperrors.NewValidationError("invalid profile update", details)
	}
	if len(updated) == 0 {
		return false, apperrors.NewValidationError("no fields to update", nil)
	}

	student.CanEditProfile = false
	if err := s.save(ctx, student); err != nil {
		return false, err
	}
	s.activity.Record(ctx, studentID, "Updated profile", "/update-profile", map[string]any{"updated_fields": updated})
	return true, nil
}

// UploadResume stores a résumé and links it to the student.
func (s *StudentService) UploadResume(ctx context.Context, studentID string, file storage.Object) (string, error) {
	if !resumeExtensions[strings.ToLower(path.Ext(file.FileName))] {
		return "", apperrors.NewValidationError("unsupported file format", map[string]any{"file": "must be .pdf, .doc or .docx"})
	}
	student, err := s.load(ctx, studentID)
	if err != nil {
		return "", err
	}

	file.Folder = "resumes"
	url, err := s.objects.Put(ctx, file)
	if err != nil {
		return "", storeFailure(s.logger, "upload resume", err)
	}
	student.ResumeLink = &url
	if err := s.save(ctx, student); err != nil {
		return "", err
	}
	s.activity.Record(ctx, studentID, "Uploaded resume", "/upload-resume", map[string]any{"file_name": file.FileName})
	return url, nil
}

// Resume returns the stored résumé link.
func (s *StudentService) Resume(ctx context.Context, studentID string) (string, error) {
	student, err := s.load(ctx, studentID)
	if err != nil {
		return "", err
	}
	if student.ResumeLink == nil || *student.ResumeLink == "" {
		return "", apperrors.NewNotFound("resume", nil)
	}
	return *student.ResumeLink, nil
}

// AddInternship uploads certificates and appends the internship to the profile.
func (s *StudentService) AddInternship(ctx context.Context, studentID string, in InternshipInput) ([]string, error) {
	details := map[string]any{}
	if strings.TrimSpace(in.Organization) == "" {
		details["organization"] = "required"
	}
	start, startErr := time.Parse(domain.DateLayout, strings.TrimSpace(in.StartDate))
	end, endErr := time.Parse(domain.DateLayout, strings.TrimSpace(in.EndDate))
	switch {
	case startErr != nil:
		details["start_date"] = "must be a YYYY-MM-DD date"
	case endErr != nil:
		details["end_date"] = "must be a YYYY-MM-DD date"
	default:
		if msg := validateInternshipDates(start, end); msg != "" {
			details["end_date"] = msg
		}
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid internship", details)
	}

	student, err := s.load(ctx, studentID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(in.Certificates))
	for _, cert := range in.Certificates {
		cert.Folder = "certificates"
		url, err := s.objects.Put(ctx, cert)
		if err != nil {
			return nil, storeFailure(s.logger, "upload certificate", err)
		}
		urls = append(urls, url)
	}

	student.Profile.Internships = append(student.Profile.Internships, domain.Internship{
		Organization: strings.TrimSpace(in.Organization),
		StartDate:    start,
		EndDate:      end,
		Certificates: urls,
		Skills:       in.Skills,
	})
	if err := s.save(ctx, student); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, studentID, "Added internship with certificates", "/add-internship", map[string]any{
		"organization":       in.Organization,
		"duration":           in.StartDate + " to " + in.EndDate,
		"skills":             in.Skills,
		"certificates_count": len(urls),
	})
	return urls, nil
}

// UploadMarksheets stores any provided marksheets and records their URLs on the profile.
func (s *StudentService) UploadMarksheets(ctx context.Context, studentID string, in MarksheetUploads) (*MarksheetURLs, error) {
	if in.Tenth == nil && in.Twelfth == nil && in.TenthAttested == nil && in.TwelfthAttested == nil &&
		countPresent(in.Semesters) == 0 && countPresent(in.SemestersAttested) == 0 {
		return nil, apperrors.NewValidationError("no valid files provided for upload", nil)
	}
	student, err := s.load(ctx, studentID)
	if err != nil {
		return nil, err
	}

	put := func(obj *storage.Object, folder string) (string, error) {
		if obj == nil {
			return "", nil
		}
		o := *obj
		o.Folder = folder
		url, err := s.objects.Put(ctx, o)
		if err != nil {
			return "", storeFailure(s.logger, "upload marksheet", err)
		}
		return url, nil
	}

	out := &MarksheetURLs{}
	if out.Tenth, err = put(in.Tenth, "marksheets/10th"); err != nil {
		return nil, err
	}
	if out.Twelfth, err = put(in.Twelfth, "marksheets/12th"); err != nil {
		return nil, err
	}
	if out.TenthAttested, err = put(in.TenthAttested, "marksheets/10th/attested"); err != nil {
		return nil, err
	}
	if out.TwelfthAttested, err = put(in.TwelfthAttested, "marksheets/12th/attested"); err != nil {
		return nil, err
	}
	if out.Tenth != "" || out.TenthAttested != "" {
		if student.Profile.TenthDetails == nil {
			student.Profile.TenthDetails = &domain.SchoolDetails{}
		}
		if out.Tenth != "" {
			student.Profile.TenthDetails.MarksheetURL = out.Tenth
		}
		if out.TenthAttested != "" {
			student.Profile.TenthDetails.AttestedMarksheetURL = out.TenthAttested
		}
	}
	if out.Twelfth != "" || out.TwelfthAttested != "" {
		if student.Profile.TwelfthDetails == nil {
			student.Profile.TwelfthDetails = &domain.SchoolDetails{}
		}
		if out.Twelfth != "" {
			student.Profile.TwelfthDetails.MarksheetURL = out.Twelfth
		}
		if out.TwelfthAttested != "" {
			student.Profile.TwelfthDetails.AttestedMarksheetURL = out.TwelfthAttested
		}
	}

	semesters := student.Profile.SemesterDetails
	for len(semesters) < max(len(in.Semesters), len(in.SemestersAttested)) {
		semesters = append(semesters, domain.SemesterDetail{Semester: len(semesters) + 1})
	}
	for i, obj := range in.Semesters {
		url, err := put(obj, "marksheets/semesters")
		if err != nil {
			return nil, err
		}
		if url != "" {
			semesters[i].MarksheetURL = url
		}
	}
	for i, obj := range in.SemestersAttested {
		url, err := put(obj, "marksheets/semesters/attested")
		if err != nil {
			return nil, err
		}
		if url != "" {
			semesters[i].AttestedMarksheetURL = url
		}
	}
	student.Profile.SemesterDetails = semesters
	out.Semesters = make([]string, len(semesters))
	out.SemestersAttested = make([]string, len(semesters))
	for i, sem := range semesters {
		out.Semesters[i] = sem.MarksheetURL
		out.SemestersAttested[i] = sem.AttestedMarksheetURL
	}

	if err := s.save(ctx, student); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, studentID, "Uploaded marksheets", "/upload-marksheets", map[string]any{
		"tenth":                   out.Tenth != "",
		"twelfth":                 out.Twelfth != "",
		"semester_count":          countPresent(in.Semesters),
		"attested_semester_count": countPresent(in.SemestersAttested),
	})
	return out, nil
}

// Activities returns the student's activity trail.
func (s *StudentService) Activities(ctx context.Context, studentID string) ([]domain.ActivityLog, error) {
	return s.activity.List(ctx, studentID)
}

func (s *StudentService) load(ctx context.Context, studentID string) (*domain.Student, error) {
	student, err := s.students.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("student", map[string]any{"student_id": studentID})
		}
		return nil, storeFailure(s.logger, "get student", err)
	}
	return student, nil
}

func (s *StudentService) save(ctx context.Context, student *domain.Student) error {
	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("student", map[string]any{"student_id": student.StudentID})
		}
		return storeFailure(s.logger, "update student", err)
	}
	return nil
}

// OverallCGPA is the mean semester CGPA rounded to two decimals.
func OverallCGPA(semesters []domain.SemesterDetail) (float64, bool) {
	if len(semesters) == 0 {
		return 0, false
	}
	var total float64
	for _, sem := range semesters {
		total += sem.CGPA
	}
	return math.Round(total/float64(len(semesters))*100) / 100, true
}

// Eligible reports whether academics meet the placement bar.
func Eligible(cgpa float64, tenth, twelfth domain.SchoolDetails, semesters []domain.SemesterDetail) bool {
	for _, sem := range semesters {
		if sem.Backlogs > 0 {
			return false
		}
	}
	return cgpa >= minEligibleCGPA && tenth.Percentage >= minEligiblePercentage && twelfth.Percentage >= minEligiblePercentage
}

func applyAcademics(student *domain.Student) float64 {
	cgpa, _ := OverallCGPA(student.Profile.SemesterDetails)
	student.OverallCGPA = &cgpa
	var tenth, twelfth domain.SchoolDetails
	if student.Profile.TenthDetails != nil {
		tenth = *student.Profile.TenthDetails
	}
	if student.Profile.TwelfthDetails != nil {
		twelfth = *student.Profile.TwelfthDetails
	}
	student.IsEligible = Eligible(cgpa, tenth, twelfth, student.Profile.SemesterDetails)
	return cgpa
}

func validateEducation(tenth, twelfth domain.SchoolDetails, semesters []domain.SemesterDetail) error {
	details := map[string]any{}
	if len(semesters) == 0 {
		details["semester_details"] = "no valid CGPA found in semester details"
	}
	for i, sem := range semesters {
		if sem.CGPA < 0 || sem.CGPA > 10 {
			details["semester_details"] = map[string]any{"index": i, "error": "cgpa must be between 0 and 10"}
		}
		if sem.Backlogs < 0 {
			details["semester_details"] = map[string]any{"index": i, "error": "backlogs must not be negative"}
		}
	}
	if tenth.Percentage < 0 || tenth.Percentage > 100 {
		details["tenth_details"] = "percentage must be between 0 and 100"
	}
	if twelfth.Percentage < 0 || twelfth.Percentage > 100 {
		details["twelfth_details"] = "percentage must be between 0 and 100"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid education details", details)
	}
	return nil
}

func validateInternshipDates(start, end time.Time) string {
	if end.Before(start) {
		return "end date cannot be before start date"
	}
	if end.Sub(start) < minInternshipDays*24*time.Hour {
		return "internship duration must be at least 30 days"
	}
	return ""
}

func countPresent(objs []*storage.Object) int {
	n := 0
	for _, o := range objs {
		if o != nil {
			n++
		}
	}
	return n
}
