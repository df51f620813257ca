package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository/memory"
	"github.com/spec-kit/placement-service/internal/storage"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

func newStudentFixture(t *testing.T) (*StudentService, *memory.Store, *storage.MemoryStore) {
	t.Helper()
	store := memory.NewStore()
	objects := storage.NewMemoryStore("https://files.test")
	require.NoError(t, store.Students().Create(context.Background(), &domain.Student{
		StudentID: "S1", Email: "s1@example.com", FirstName: "Asha", LastName: "Rao",
		Role: domain.RoleStudent, PlacementStatus: domain.PlacementUnplaced, CurrentStep: 1,
	}))
	svc := NewStudentService(StudentDependencies{
		Students: store.Students(),
		Objects:  objects,
		Activity: NewActivityRecorder(store.Activities(), nil),
	})
	return svc, store, objects
}

func TestOverallCGPAAndEligibility(t *testing.T) {
	cgpa, ok := OverallCGPA([]domain.SemesterDetail{{CGPA: 7.1}, {CGPA: 8.25}, {CGPA: 6.0}})
	require.True(t, ok)
	assert.Equal(t, 7.12, cgpa)

	_, ok = OverallCGPA(nil)
	assert.False(t, ok)

	pass := domain.SchoolDetails{Percentage: 60}
	fail := domain.SchoolDetails{Percentage: 59.9}
	clean := []domain.SemesterDetail{{CGPA: 6}}
	assert.True(t, Eligible(6.0, pass, pass, clean))
	assert.False(t, Eligible(5.99, pass, pass, clean))
	assert.False(t, Eligible(8, fail, pass, clean))
	assert.False(t, Eligible(8, pass, fail, clean))
	assert.False(t, Eligible(8, pass, pass, []domain.SemesterDetail{{CGPA: 8, Backlogs: 1}}))
}

func TestOnboardingSteps(t *testing.T) {
	svc, store, _ := newStudentFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.UpdatePersonalDetails(ctx, "S1", PersonalDetails{
		FirstName: "Asha", LastName: "Rao", FatherName: "R", MotherName: "M", DateOfBirth: "2002-03-14", Branch: "CSE",
	}))
	profile, err := svc.Profile(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, 2, profile.CurrentStep)
	assert.Equal(t, "CSE", profile.Profile.Branch)

	cgpa, err := svc.UpdateEducation(ctx, "S1", EducationDetails{
		Tenth:     domain.SchoolDetails{Percentage: 91},
		Twelfth:   domain.SchoolDetails{Percentage: 85},
		Semesters: []domain.SemesterDetail{{Semester: 1, CGPA: 8}, {Semester: 2, CGPA: 7}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7.5, cgpa)

	profile, err = svc.Profile(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, 3, profile.CurrentStep)
	assert.True(t, profile.IsStepCompleted)
	assert.True(t, profile.IsEligible)

	activities, err := store.Activities().ListByStudent(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "Updated education details", activities[0].Action)
}

func TestUpdateEducationRequiresSemesters(t *testing.T) {
	svc, _, _ := newStudentFixture(t)
	_, err := svc.UpdateEducation(context.Background(), "S1", EducationDetails{})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestUpdateProfileNeedsGrant(t *testing.T) {
	svc, store, _ := newStudentFixture(t)
	ctx := context.Background()
	branch := "ECE"

	applied, err := svc.UpdateProfile(ctx, "S1", ProfileUpdate{Branch: &branch})
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = store.Students().SetEditAccess(ctx, []string{"S1"}, true)
	require.NoError(t, err)
	applied, err = svc.UpdateProfile(ctx, "S1", ProfileUpdate{Branch: &branch})
	require.NoError(t, err)
	assert.True(t, applied)

	profile, err := svc.Profile(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "ECE", profile.Profile.Branch)
	assert.False(t, profile.CanEditProfile)
}

func TestResumeUpload(t *testing.T) {
	svc, _, objects := newStudentFixture(t)
	ctx := context.Background()

	_, err := svc.Resume(ctx, "S1")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = svc.UploadResume(ctx, "S1", storage.Object{FileName: "cv.png", Body: strings.NewReader("x")})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	url, err := svc.UploadResume(ctx, "S1", storage.Object{FileName: "cv.PDF", Body: strings.NewReader("%PDF")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://files.test/resumes/"))
	assert.Equal(t, 1, objects.Len())

	got, err := svc.Resume(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, url, got)
}

func TestAddInternshipDuration(t *testing.T) {
	svc, _, _ := newStudentFixture(t)
	ctx := context.Background()

	_, err := svc.AddInternship(ctx, "S1", InternshipInput{Organization: "Acme", StartDate: "2024-01-01", EndDate: "2024-01-20"})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	urls, err := svc.AddInternship(ctx, "S1", InternshipInput{
		Organization: "Acme", StartDate: "2024-01-01", EndDate: "2024-03-01",
		Skills:       []string{"go"},
		Certificates: []storage.Object{{FileName: "cert.pdf", Body: strings.NewReader("c")}},
	})
	require.NoError(t, err)
	require.Len(t, urls, 1)

	profile, err := svc.Profile(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, profile.Profile.Internships, 1)
	assert.Equal(t, urls, profile.Profile.Internships[0].Certificates)
}

func TestUploadMarksheets(t *testing.T) {
	svc, _, _ := newStudentFixture(t)
	ctx := context.Background()

	_, err := svc.UploadMarksheets(ctx, "S1", MarksheetUploads{})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	out, err := svc.UploadMarksheets(ctx, "S1", MarksheetUploads{
		Tenth:     &storage.Object{FileName: "10.pdf", Body: strings.NewReader("a")},
		Semesters: []*storage.Object{nil, {FileName: "s2.pdf", Body: strings.NewReader("b")}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Tenth)
	require.Len(t, out.Semesters, 2)
	assert.Empty(t, out.Semesters[0])
	assert.NotEmpty(t, out.Semesters[1])

	profile, err := svc.Profile(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, out.Tenth, profile.Profile.TenthDetails.MarksheetURL)
	assert.Equal(t, 2, profile.Profile.SemesterDetails[1].Semester)
}
