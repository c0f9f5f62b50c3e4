package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/services"
	"github.com/localnerve/lofreports/internal/store"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/localnerve/lofreports/internal/utils"
)

// ArchiveHandler handles year-end archival
type ArchiveHandler struct {
	Store    *store.Store
	Archives *services.ArchiveService
}

type archiveInput struct {
	Year types.FlexInt `json:"year"`
}

// Archive handles POST /api/admin/archive
// @Summary Year-end archive
// @Description Move every chapter and event report up to and including a past year out of live state. The payload is returned and recorded for later download.
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body archiveInput true "Last year to archive"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/archive [post]
func (h *ArchiveHandler) Archive(c *fiber.Ctx) error {
	var body archiveInput
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, string(types.KindValidation))
	}

	year := body.Year.Int()
	if err := services.ValidateArchiveYear(year, h.Store.Now()); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	outcome, err := h.Archives.Archive(c.UserContext(), year)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.MutationSuccessResponse(c, h.Store.Version(), outcome)
}

// ListArchives handles GET /api/admin/archives
// @Summary List recorded archives
// @Tags Admin
// @Produce json
// @Success 200 {array} services.ArchiveSummary
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/archives [get]
func (h *ArchiveHandler) ListArchives(c *fiber.Ctx) error {
	summaries, err := h.Archives.List(c.UserContext())
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, summaries, fiber.StatusOK)
}

// GetArchive handles GET /api/admin/archives/:id
// @Summary Download a recorded archive
// @Tags Admin
// @Produce json
// @Param id path string true "Archive ID"
// @Success 200 {object} models.ArchivePayload
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/archives/{id} [get]
func (h *ArchiveHandler) GetArchive(c *fiber.Ctx) error {
	archive, err := h.Archives.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+services.ArchiveFilename(archive.ArchivedUpToYear)+`"`)
	return c.Status(fiber.StatusOK).Send(archive.Payload.Bytes())
}
