// reports.go
//
// Hierarchical chapter reporting service for the Ladies of the Fellowship dashboard
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lofreports.
// lofreports is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lofreports is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lofreports.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/services"
	"github.com/localnerve/lofreports/internal/store"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/localnerve/lofreports/internal/utils"
)

// ReportHandler handles chapter and event report routes
type ReportHandler struct {
	Store *store.Store
}

// SubmitChapterReports handles POST /api/reports/chapter
// @Summary Submit chapter reports
// @Description Upsert one report or a list, keyed by chapter, year and month. Chapter Presidents may only report for their own chapter.
// @Tags Reports
// @Accept json
// @Produce json
// @Param body body models.ChapterReport true "A report or an array of reports"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /reports/chapter [post]
func (h *ReportHandler) SubmitChapterReports(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var body types.ReportBatch[models.ChapterReport]
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, string(types.KindValidation))
	}

	reports := body.Reports()
	if user.Role == models.RoleChapterPresident {
		for i := range reports {
			if reports[i].ChapterID == "" {
				reports[i].ChapterID = user.UnitID
			}
			if reports[i].ChapterID != user.UnitID {
				return forbidden(fmt.Sprintf("Not permitted to report for chapter %s", reports[i].ChapterID))
			}
		}
	}

	stored, err := h.Store.SubmitChapterReports(c.UserContext(), reports)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.MutationSuccessResponse(c, h.Store.Version(), stored)
}

// chapterFor resolves the :chapterId param for the current user
func (h *ReportHandler) chapterFor(c *fiber.Ctx) (models.Chapter, error) {
	user, err := currentUser(c)
	if err != nil {
		return models.Chapter{}, err
	}

	id := c.Params("chapterId")
	chapter, ok := h.Store.Chapter(id)
	if !ok {
		return chapter, types.NotFound("chapter %s not found", id)
	}
	if !h.Store.CanViewChapter(user, id) {
		return chapter, forbidden(fmt.Sprintf("Not permitted to view chapter %s", id))
	}
	return chapter, nil
}

// GetChapterReports handles GET /api/reports/chapter/:chapterId
// @Summary List chapter reports
// @Description Reports of one chapter, newest first, optionally limited to a date range
// @Tags Reports
// @Produce json
// @Param chapterId path string true "Chapter ID"
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.ChapterReport
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /reports/chapter/{chapterId} [get]
func (h *ReportHandler) GetChapterReports(c *fiber.Ctx) error {
	chapter, err := h.chapterFor(c)
	if err != nil {
		return err
	}
	rng, err := parseDateRange(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	reports := h.Store.ChapterReports(chapter.ID, rng)
	if reports == nil {
		reports = []models.ChapterReport{}
	}
	return utils.SuccessResponse(c, reports, fiber.StatusOK)
}

// ExportChapterReports handles GET /api/reports/chapter/:chapterId/export
// @Summary Export chapter reports
// @Description CSV download of the chapter's reports for the range
// @Tags Reports
// @Produce text/csv
// @Param chapterId path string true "Chapter ID"
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Success 200 {string} string
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /reports/chapter/{chapterId}/export [get]
func (h *ReportHandler) ExportChapterReports(c *fiber.Ctx) error {
	chapter, err := h.chapterFor(c)
	if err != nil {
		return err
	}
	rng, err := parseDateRange(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	reports := h.Store.ChapterReports(chapter.ID, rng)
	return sendDownload(c, services.ChapterReportFilename(chapter.Name, rng), services.ChapterReportsCSV(reports))
}

// SubmitEventReport handles POST /api/reports/event
// @Summary Submit an event report
// @Description Append an event report filed by the signed-in supervisory officer
// @Tags Reports
// @Accept json
// @Produce json
// @Param body body models.EventReport true "Event report"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /reports/event [post]
func (h *ReportHandler) SubmitEventReport(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var event models.EventReport
	if err := c.BodyParser(&event); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, string(types.KindValidation))
	}
	event.ReportingOfficerID = user.ID

	stored, err := h.Store.SubmitEventReport(c.UserContext(), event)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.MutationSuccessResponse(c, h.Store.Version(), stored)
}

// GetEventReports handles GET /api/reports/event
// @Summary List own event reports
// @Tags Reports
// @Produce json
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.EventReport
// @Security CookieAuth
// @Router /reports/event [get]
func (h *ReportHandler) GetEventReports(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	rng, err := parseDateRange(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	events := h.Store.EventReportsByOfficer(user.ID, rng)
	if events == nil {
		events = []models.EventReport{}
	}
	return utils.SuccessResponse(c, events, fiber.StatusOK)
}
