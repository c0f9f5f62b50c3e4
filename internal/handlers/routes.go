package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/middleware"
	"github.com/localnerve/lofreports/internal/models"
)

// Handlers groups the API route handlers
type Handlers struct {
	Auth      *AuthHandler
	Org       *OrgHandler
	Reports   *ReportHandler
	Dashboard *DashboardHandler
	Archive   *ArchiveHandler
}

var (
	officerRoles = []models.Role{
		models.RoleFieldRepresentative,
		models.RoleNationalDirector,
		models.RoleDistrictCoordinator,
	}
	aggregateRoles = []models.Role{
		models.RoleFieldRepresentative,
		models.RoleNationalDirector,
		models.RoleDistrictCoordinator,
		models.RoleDistrictAdmin,
		models.RoleAdmin,
	}
)

// RegisterRoutes mounts the API under api
func RegisterRoutes(api fiber.Router, auth *middleware.Auth, h Handlers) {
	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/logout", h.Auth.Logout)
	authGroup.Get("/me", auth.AuthUser(), h.Auth.Me)
	authGroup.Post("/password", auth.AuthUser(), h.Auth.ChangePassword)

	// Hierarchy management (Admin, District Admin)
	org := api.Group("/org", auth.AuthUser(models.RoleAdmin, models.RoleDistrictAdmin))
	org.Get("/:kind", h.Org.List)
	org.Post("/:kind", h.Org.Create)
	org.Put("/:kind/:id", h.Org.Update)
	org.Delete("/:kind/:id", h.Org.Delete)

	// Reports
	reports := api.Group("/reports")
	reports.Post("/chapter", auth.AuthUser(models.RoleChapterPresident, models.RoleAdmin), h.Reports.SubmitChapterReports)
	reports.Get("/chapter/:chapterId", auth.AuthUser(), h.Reports.GetChapterReports)
	reports.Get("/chapter/:chapterId/export", auth.AuthUser(), h.Reports.ExportChapterReports)
	reports.Post("/event", auth.AuthUser(officerRoles...), h.Reports.SubmitEventReport)
	reports.Get("/event", auth.AuthUser(officerRoles...), h.Reports.GetEventReports)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboard.Get("/", auth.AuthUser(), h.Dashboard.Summary)
	dashboard.Get("/aggregate", auth.AuthUser(aggregateRoles...), h.Dashboard.Aggregate)
	dashboard.Get("/export", auth.AuthUser(aggregateRoles...), h.Dashboard.Export)
	dashboard.Post("/narrative", auth.AuthUser(aggregateRoles...), h.Dashboard.Narrative)

	// Year-end archival (Admin only)
	admin := api.Group("/admin", auth.AuthAdmin())
	admin.Post("/archive", h.Archive.Archive)
	admin.Get("/archives", h.Archive.ListArchives)
	admin.Get("/archives/:id", h.Archive.GetArchive)
}
