package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/placement-service/internal/api/http/handlers"
	"github.com/spec-kit/placement-service/internal/auth"
	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Students *handlers.StudentHandler
	Admin    *handlers.AdminHandler
	Company  *handlers.CompanyHandler
	Content  *handlers.ContentHandler
	Guard    *auth.Guard
	Metrics  *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Post("/token", cfg.Auth.Token)
	app.Post("/login", cfg.Auth.StudentLogin)
	app.Post("/student-register", cfg.Auth.RegisterStudent)
	app.Post("/admin-login", cfg.Auth.AdminLogin)
	app.Post("/create_admin", cfg.Guard.RequireSuperAdmin(), cfg.Auth.CreateAdmin)

	app.Get("/get-all-companies", cfg.Company.ListCompanies)
	app.Get("/get-company/:id", cfg.Company.GetCompany)
	app.Get("/announcement/get-announcements", cfg.Content.ListAnnouncements)
	app.Get("/resources", cfg.Content.ListResources)

	student := cfg.Guard.RequireStudent()
	app.Get("/profile", student, cfg.Students.Profile)
	app.Put("/update-personal-details", student, cfg.Students.UpdatePersonalDetails)
	app.Put("/update-education-details", student, cfg.Students.UpdateEducation)
	app.Put("/update-profile", student, cfg.Students.UpdateProfile)
	app.Post("/upload-resume", student, cfg.Students.UploadResume)
	app.Get("/get-resume", student, cfg.Students.GetResume)
	app.Put("/add-internship", student, cfg.Students.AddInternship)
	app.Post("/add-internship", student, cfg.Students.AddInternship)
	app.Put("/upload-marksheets", student, cfg.Students.UploadMarksheets)
	app.Post("/apply-job", student, cfg.Students.ApplyJob)
	app.Get("/my-applications", student, cfg.Students.MyApplications)
	app.Get("/my-activities", student, cfg.Students.MyActivities)
	app.Get("/notifications", student, cfg.Students.Notifications)

	admin := []fiber.Handler{cfg.Guard.RequireAdmin(), auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin)}
	app.Get("/admin/profile", withGuards(admin, cfg.Admin.Profile)...)
	app.Get("/get-all-students", withGuards(admin, cfg.Admin.ListStudents)...)
	app.Get("/view-profile", withGuards(admin, cfg.Admin.ViewStudent)...)
	app.Put("/grant-edit-access", withGuards(admin, cfg.Admin.GrantEditAccess)...)
	app.Get("/dashboard-stats", withGuards(admin, cfg.Admin.Dashboard)...)
	app.Post("/send-notification", withGuards(admin, cfg.Admin.SendNotification)...)
	app.Post("/add-company", withGuards(admin, cfg.Company.AddCompany)...)
	app.Put("/update-company/:id", withGuards(admin, cfg.Company.UpdateCompany)...)
	app.Put("/upload-documents/:id", withGuards(admin, cfg.Company.UploadDocuments)...)
	app.Get("/view-all-applications/:id", withGuards(admin, cfg.Company.ViewApplications)...)
	app.Post("/announcement/add-announcement", withGuards(admin, cfg.Content.AddAnnouncement)...)
	app.Post("/resources", withGuards(admin, cfg.Content.AddResource)...)
}

func withGuards(guards []fiber.Handler, h fiber.Handler) []fiber.Handler {
	return append(append([]fiber.Handler{}, guards...), h)
}
