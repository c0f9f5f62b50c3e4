// common.go
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
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/middleware"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/types"
)

// parseDateRange reads the optional start and end query parameters. A range
// needs both; with either missing the request covers all time.
func parseDateRange(c *fiber.Ctx) (*models.DateRange, error) {
	rng, err := models.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		return nil, types.Validation("%s", err.Error())
	}
	if rng != nil && rng.End.Before(rng.Start) {
		return nil, types.Validation("end date %s is before start date %s", rng.EndString(), rng.StartString())
	}
	return rng, nil
}

// parseBool accepts the usual query flag spellings
func parseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}

// currentUser extracts the signed-in user (set by auth middleware)
func currentUser(c *fiber.Ctx) (models.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return user, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "user not found in context",
			Type:    string(types.KindAuth),
		}
	}
	return user, nil
}

// sendDownload sends body as an attachment named filename
func sendDownload(c *fiber.Ctx, filename string, body []byte) error {
	c.Attachment(filename)
	return c.Status(fiber.StatusOK).Send(body)
}

// forbidden is the error for a signed-in user acting outside their scope
func forbidden(message string) error {
	return &types.CustomError{
		Code:    fiber.StatusForbidden,
		Message: message,
		Type:    "forbidden",
	}
}
