package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/services"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/localnerve/lofreports/internal/utils"
)

// DashboardHandler handles summaries, roll-ups and their derived views
type DashboardHandler struct {
	Aggregator *services.Aggregator
	Dashboard  *services.DashboardService
	Narrator   services.NarrativeGenerator
}

// Summary handles GET /api/dashboard
// @Summary Dashboard summary
// @Description Latest chapter report for Chapter Presidents, a year-to-date roll-up for everyone else
// @Tags Dashboard
// @Produce json
// @Success 200 {object} services.Dashboard
// @Security CookieAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, h.Dashboard.ForUser(user), fiber.StatusOK)
}

// aggregate rolls up the current user's unit for the requested range. Its
// errors go through ErrorHandler.
func (h *DashboardHandler) aggregate(c *fiber.Ctx) (models.User, *models.DateRange, *models.AggregatedData, error) {
	user, err := currentUser(c)
	if err != nil {
		return user, nil, nil, err
	}
	rng, err := parseDateRange(c)
	if err != nil {
		return user, nil, nil, err
	}
	data := h.Aggregator.Aggregate(user.Role, user.UnitID, rng)
	if data == nil {
		return user, rng, nil, types.NotFound("no aggregate for %s %s", user.Role, user.UnitID)
	}
	return user, rng, data, nil
}

// Aggregate handles GET /api/dashboard/aggregate
// @Summary Aggregated roll-up
// @Description Roll-up of the caller's unit. With compare=true the range is also compared with the period of equal length before it.
// @Tags Dashboard
// @Produce json
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Param compare query bool false "Compare with the previous period"
// @Success 200 {object} models.AggregatedData
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /dashboard/aggregate [get]
func (h *DashboardHandler) Aggregate(c *fiber.Ctx) error {
	if !parseBool(c.Query("compare")) {
		_, _, data, err := h.aggregate(c)
		if err != nil {
			return err
		}
		return utils.SuccessResponse(c, data, fiber.StatusOK)
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}
	rng, err := parseDateRange(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if rng == nil {
		return utils.DomainErrorResponse(c, types.Validation("comparison needs a start and end date"))
	}

	comparison := h.Aggregator.Compare(user.Role, user.UnitID, *rng)
	if comparison == nil {
		return utils.NotFoundResponse(c, "No aggregate for "+string(user.Role)+" "+user.UnitID)
	}
	return utils.SuccessResponse(c, comparison, fiber.StatusOK)
}

// Export handles GET /api/dashboard/export
// @Summary Export the roll-up totals
// @Tags Dashboard
// @Produce text/csv
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Success 200 {string} string
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /dashboard/export [get]
func (h *DashboardHandler) Export(c *fiber.Ctx) error {
	user, rng, data, err := h.aggregate(c)
	if err != nil {
		return err
	}
	return sendDownload(c, services.AggregateReportFilename(user, rng), services.AggregateCSV(data))
}

// Narrative handles POST /api/dashboard/narrative
// @Summary Narrative summary
// @Description Ask the narrative service to summarize the roll-up totals
// @Tags Dashboard
// @Produce json
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} services.Narrative
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /dashboard/narrative [post]
func (h *DashboardHandler) Narrative(c *fiber.Ctx) error {
	user, _, data, err := h.aggregate(c)
	if err != nil {
		return err
	}

	narrative, err := h.Narrator.Generate(c.UserContext(), services.NewNarrativeRequest(user.Role, user.Name, data))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, narrative, fiber.StatusOK)
}
