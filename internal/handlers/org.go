// org.go
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
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/store"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/localnerve/lofreports/internal/utils"
)

// OrgHandler handles management of the organization hierarchy and the
// user directory
type OrgHandler struct {
	Store *store.Store
}

// orgKind binds one managed collection to the store
type orgKind[T any] struct {
	name    string
	lookup  func(id string) (T, bool)
	setID   func(item *T, id string)
	allowed func(item T) bool
	add     func(ctx context.Context, item T) (T, error)
	update  func(ctx context.Context, item T) (T, error)
	remove  func(ctx context.Context, id string) error
	present func(item T) T
}

func (h *OrgHandler) districts(scope store.Scope) orgKind[models.District] {
	return orgKind[models.District]{
		name:    "district",
		lookup:  h.Store.District,
		setID:   func(d *models.District, id string) { d.ID = id },
		allowed: func(d models.District) bool { return scope.All() || (d.ID != "" && scope.District(d)) },
		add:     h.Store.AddDistrict,
		update:  h.Store.UpdateDistrict,
		remove:  h.Store.DeleteDistrict,
	}
}

func (h *OrgHandler) zones(scope store.Scope) orgKind[models.Zone] {
	return orgKind[models.Zone]{
		name:    "zone",
		lookup:  h.Store.Zone,
		setID:   func(z *models.Zone, id string) { z.ID = id },
		allowed: scope.Zone,
		add:     h.Store.AddZone,
		update:  h.Store.UpdateZone,
		remove:  h.Store.DeleteZone,
	}
}

func (h *OrgHandler) areas(scope store.Scope) orgKind[models.Area] {
	return orgKind[models.Area]{
		name:    "area",
		lookup:  h.Store.Area,
		setID:   func(a *models.Area, id string) { a.ID = id },
		allowed: scope.Area,
		add:     h.Store.AddArea,
		update:  h.Store.UpdateArea,
		remove:  h.Store.DeleteArea,
	}
}

func (h *OrgHandler) chapters(scope store.Scope) orgKind[models.Chapter] {
	return orgKind[models.Chapter]{
		name:    "chapter",
		lookup:  h.Store.Chapter,
		setID:   func(ch *models.Chapter, id string) { ch.ID = id },
		allowed: scope.Chapter,
		add:     h.Store.AddChapter,
		update:  h.Store.UpdateChapter,
		remove:  h.Store.DeleteChapter,
	}
}

func (h *OrgHandler) users(scope store.Scope) orgKind[models.User] {
	return orgKind[models.User]{
		name:   "user",
		lookup: h.Store.User,
		setID:  func(u *models.User, id string) { u.ID = id },
		// Existing records may be the actor's own account; proposed records
		// must land on a unit in scope and never grant Admin outside it
		allowed: scope.User,
		add:     h.Store.AddUser,
		update:  h.Store.UpdateUser,
		remove:  h.Store.DeleteUser,
		present: models.User.Public,
	}
}

// userTarget reports whether a proposed user record is in scope
func userTarget(scope store.Scope, u models.User) bool {
	if scope.All() {
		return true
	}
	return u.Role != models.RoleAdmin && scope.Unit(u.Role.UnitKind(), u.UnitID)
}

func (k orgKind[T]) show(item T) T {
	if k.present != nil {
		return k.present(item)
	}
	return item
}

func create[T any](c *fiber.Ctx, st *store.Store, k orgKind[T], target func(T) bool) error {
	var item T
	if err := c.BodyParser(&item); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, string(types.KindValidation))
	}
	if !target(item) {
		return forbidden(fmt.Sprintf("Not permitted to create this %s", k.name))
	}

	created, err := k.add(c.UserContext(), item)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c, st.Version(), k.show(created))
}

func replace[T any](c *fiber.Ctx, st *store.Store, k orgKind[T], target func(T) bool) error {
	id := c.Params("id")
	existing, ok := k.lookup(id)
	if !ok {
		return utils.NotFoundResponse(c, fmt.Sprintf("%s %s not found", k.name, id))
	}
	if !k.allowed(existing) {
		return forbidden(fmt.Sprintf("Not permitted to change %s %s", k.name, id))
	}

	var item T
	if err := c.BodyParser(&item); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, string(types.KindValidation))
	}
	k.setID(&item, id)
	if !target(item) {
		return forbidden(fmt.Sprintf("Not permitted to move %s %s there", k.name, id))
	}

	updated, err := k.update(c.UserContext(), item)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c, st.Version(), k.show(updated))
}

func destroy[T any](c *fiber.Ctx, st *store.Store, k orgKind[T]) error {
	id := c.Params("id")
	existing, ok := k.lookup(id)
	if !ok {
		return utils.NotFoundResponse(c, fmt.Sprintf("%s %s not found", k.name, id))
	}
	if !k.allowed(existing) {
		return forbidden(fmt.Sprintf("Not permitted to delete %s %s", k.name, id))
	}

	if err := k.remove(c.UserContext(), id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c, st.Version(), nil)
}

func unknownKind(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, fmt.Sprintf("Unknown collection '%s'", c.Params("kind")))
}

func (h *OrgHandler) scope(c *fiber.Ctx) (store.Scope, error) {
	actor, err := currentUser(c)
	if err != nil {
		return store.Scope{}, err
	}
	return h.Store.ManagementScope(actor), nil
}

// List handles GET /api/org/:kind
// @Summary List a hierarchy collection
// @Description List districts, zones, areas, chapters or users within the caller's management scope
// @Tags Org
// @Produce json
// @Param kind path string true "districts, zones, areas, chapters or users"
// @Success 200 {array} object
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /org/{kind} [get]
func (h *OrgHandler) List(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return err
	}

	switch c.Params("kind") {
	case "districts":
		return utils.SuccessResponse(c, store.Filter(h.Store.Districts(), scope.District), fiber.StatusOK)
	case "zones":
		return utils.SuccessResponse(c, store.Filter(h.Store.Zones(), scope.Zone), fiber.StatusOK)
	case "areas":
		return utils.SuccessResponse(c, store.Filter(h.Store.Areas(), scope.Area), fiber.StatusOK)
	case "chapters":
		return utils.SuccessResponse(c, store.Filter(h.Store.Chapters(), scope.Chapter), fiber.StatusOK)
	case "users":
		users := store.Filter(h.Store.Users(), scope.User)
		for i := range users {
			users[i] = users[i].Public()
		}
		return utils.SuccessResponse(c, users, fiber.StatusOK)
	}
	return unknownKind(c)
}

// Create handles POST /api/org/:kind
// @Summary Create a hierarchy record
// @Description Add a district, zone, area, chapter or user. The new record gets a generated id.
// @Tags Org
// @Accept json
// @Produce json
// @Param kind path string true "districts, zones, areas, chapters or users"
// @Param body body object true "Record"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /org/{kind} [post]
func (h *OrgHandler) Create(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return err
	}

	switch c.Params("kind") {
	case "districts":
		// New districts have no id yet, so only Admins pass
		return create(c, h.Store, h.districts(scope), func(models.District) bool { return scope.All() })
	case "zones":
		return create(c, h.Store, h.zones(scope), scope.Zone)
	case "areas":
		return create(c, h.Store, h.areas(scope), scope.Area)
	case "chapters":
		return create(c, h.Store, h.chapters(scope), scope.Chapter)
	case "users":
		return create(c, h.Store, h.users(scope), func(u models.User) bool { return userTarget(scope, u) })
	}
	return unknownKind(c)
}

// Update handles PUT /api/org/:kind/:id
// @Summary Replace a hierarchy record
// @Description Full replace keyed by id. An empty user password keeps the current one.
// @Tags Org
// @Accept json
// @Produce json
// @Param kind path string true "districts, zones, areas, chapters or users"
// @Param id path string true "Record ID"
// @Param body body object true "Record"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /org/{kind}/{id} [put]
func (h *OrgHandler) Update(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return err
	}

	switch c.Params("kind") {
	case "districts":
		k := h.districts(scope)
		return replace(c, h.Store, k, k.allowed)
	case "zones":
		return replace(c, h.Store, h.zones(scope), scope.Zone)
	case "areas":
		return replace(c, h.Store, h.areas(scope), scope.Area)
	case "chapters":
		return replace(c, h.Store, h.chapters(scope), scope.Chapter)
	case "users":
		return replace(c, h.Store, h.users(scope), func(u models.User) bool { return userTarget(scope, u) })
	}
	return unknownKind(c)
}

// Delete handles DELETE /api/org/:kind/:id
// @Summary Delete a hierarchy record
// @Description Records that reference the deleted one are kept
// @Tags Org
// @Produce json
// @Param kind path string true "districts, zones, areas, chapters or users"
// @Param id path string true "Record ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /org/{kind}/{id} [delete]
func (h *OrgHandler) Delete(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return err
	}

	switch c.Params("kind") {
	case "districts":
		return destroy(c, h.Store, h.districts(scope))
	case "zones":
		return destroy(c, h.Store, h.zones(scope))
	case "areas":
		return destroy(c, h.Store, h.areas(scope))
	case "chapters":
		return destroy(c, h.Store, h.chapters(scope))
	case "users":
		return destroy(c, h.Store, h.users(scope))
	}
	return unknownKind(c)
}
