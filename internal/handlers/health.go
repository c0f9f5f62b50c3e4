package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/config"
	"github.com/localnerve/lofreports/internal/services"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HealthHandler reports service health
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *logrus.Entry
}

// Health handles GET /health
// @Summary Health check
// @Description Database and narrative endpoint reachability. Degraded still answers 200.
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.DB, h.Log)
	status := fiber.StatusOK
	if result.Status == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
