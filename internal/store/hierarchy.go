// hierarchy.go
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

package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/localnerve/lofreports/internal/validation"
)

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

func find[T any](items []T, id string, idOf func(T) string) (T, bool) {
	if i := indexOf(items, id, idOf); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// add appends item after assigning it an id when it has none.
func add[T any](items []T, item T, idOf func(T) string, setID func(*T, string)) ([]T, T, error) {
	id := idOf(item)
	if id == "" {
		id = uuid.NewString()
		setID(&item, id)
	} else if indexOf(items, id, idOf) >= 0 {
		return items, item, types.Validation("id %s already exists", id)
	}
	return append(items, item), item, nil
}

func update[T any](items []T, item T, idOf func(T) string, kind models.UnitKind) error {
	i := indexOf(items, idOf(item), idOf)
	if i < 0 {
		return types.NotFound("%s %s not found", kind, idOf(item))
	}
	items[i] = item
	return nil
}

// remove deletes the item without touching anything that references it.
func remove[T any](items []T, id string, idOf func(T) string, kind string) ([]T, error) {
	i := indexOf(items, id, idOf)
	if i < 0 {
		return items, types.NotFound("%s %s not found", kind, id)
	}
	return append(items[:i], items[i+1:]...), nil
}

func districtID(d models.District) string { return d.ID }
func zoneID(z models.Zone) string         { return z.ID }
func areaID(a models.Area) string         { return a.ID }
func chapterID(c models.Chapter) string   { return c.ID }
func userID(u models.User) string         { return u.ID }

// Districts returns all districts in insertion order.
func (s *Store) Districts() []models.District {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.District{}, s.districts...)
}

// Zones returns all zones in insertion order.
func (s *Store) Zones() []models.Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Zone{}, s.zones...)
}

// Areas returns all areas in insertion order.
func (s *Store) Areas() []models.Area {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Area{}, s.areas...)
}

// Chapters returns all chapters in insertion order.
func (s *Store) Chapters() []models.Chapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Chapter{}, s.chapters...)
}

// Users returns all users in insertion order, passwords included.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User{}, s.users...)
}

// User looks a user up by id.
func (s *Store) User(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.users, id, userID)
}

// District looks a district up by id.
func (s *Store) District(id string) (models.District, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.districts, id, districtID)
}

// Zone looks a zone up by id.
func (s *Store) Zone(id string) (models.Zone, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.zones, id, zoneID)
}

// Area looks an area up by id.
func (s *Store) Area(id string) (models.Area, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.areas, id, areaID)
}

// Chapter looks a chapter up by id.
func (s *Store) Chapter(id string) (models.Chapter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.chapters, id, chapterID)
}

// AddDistrict creates a district.
func (s *Store) AddDistrict(ctx context.Context, d models.District) (models.District, error) {
	if err := validation.Struct(d); err != nil {
		return d, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, d, err := add(s.districts, d, districtID, func(d *models.District, id string) { d.ID = id })
	if err != nil {
		return d, err
	}
	s.districts = items
	s.commit(ctx)
	return d, nil
}

// UpdateDistrict replaces the district with the same id.
func (s *Store) UpdateDistrict(ctx context.Context, d models.District) (models.District, error) {
	if err := validation.Struct(d); err != nil {
		return d, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := update(s.districts, d, districtID, models.UnitDistrict); err != nil {
		return d, err
	}
	s.commit(ctx)
	return d, nil
}

// DeleteDistrict removes a district. Zones and users bound to it are kept
// and become dangling references.
func (s *Store) DeleteDistrict(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := remove(s.districts, id, districtID, "district")
	if err != nil {
		return err
	}
	s.districts = items
	s.commit(ctx)
	return nil
}

// AddZone creates a zone under an existing district.
func (s *Store) AddZone(ctx context.Context, z models.Zone) (models.Zone, error) {
	if err := validation.Struct(z); err != nil {
		return z, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.districts, z.DistrictID, districtID) < 0 {
		return z, types.Validation("district %s does not exist", z.DistrictID)
	}
	items, z, err := add(s.zones, z, zoneID, func(z *models.Zone, id string) { z.ID = id })
	if err != nil {
		return z, err
	}
	s.zones = items
	s.commit(ctx)
	return z, nil
}

// UpdateZone replaces the zone with the same id.
func (s *Store) UpdateZone(ctx context.Context, z models.Zone) (models.Zone, error) {
	if err := validation.Struct(z); err != nil {
		return z, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.districts, z.DistrictID, districtID) < 0 {
		return z, types.Validation("district %s does not exist", z.DistrictID)
	}
	if err := update(s.zones, z, zoneID, models.UnitZone); err != nil {
		return z, err
	}
	s.commit(ctx)
	return z, nil
}

// DeleteZone removes a zone without cascading.
func (s *Store) DeleteZone(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := remove(s.zones, id, zoneID, "zone")
	if err != nil {
		return err
	}
	s.zones = items
	s.commit(ctx)
	return nil
}

// AddArea creates an area under an existing zone.
func (s *Store) AddArea(ctx context.Context, a models.Area) (models.Area, error) {
	if err := validation.Struct(a); err != nil {
		return a, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.zones, a.ZoneID, zoneID) < 0 {
		return a, types.Validation("zone %s does not exist", a.ZoneID)
	}
	items, a, err := add(s.areas, a, areaID, func(a *models.Area, id string) { a.ID = id })
	if err != nil {
		return a, err
	}
	s.areas = items
	s.commit(ctx)
	return a, nil
}

// UpdateArea replaces the area with the same id.
func (s *Store) UpdateArea(ctx context.Context, a models.Area) (models.Area, error) {
	if err := validation.Struct(a); err != nil {
		return a, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.zones, a.ZoneID, zoneID) < 0 {
		return a, types.Validation("zone %s does not exist", a.ZoneID)
	}
	if err := update(s.areas, a, areaID, models.UnitArea); err != nil {
		return a, err
	}
	s.commit(ctx)
	return a, nil
}

// DeleteArea removes an area without cascading.
func (s *Store) DeleteArea(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := remove(s.areas, id, areaID, "area")
	if err != nil {
		return err
	}
	s.areas = items
	s.commit(ctx)
	return nil
}

// AddChapter creates a chapter under an existing area.
func (s *Store) AddChapter(ctx context.Context, c models.Chapter) (models.Chapter, error) {
	if err := validation.Struct(c); err != nil {
		return c, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.areas, c.AreaID, areaID) < 0 {
		return c, types.Validation("area %s does not exist", c.AreaID)
	}
	items, c, err := add(s.chapters, c, chapterID, func(c *models.Chapter, id string) { c.ID = id })
	if err != nil {
		return c, err
	}
	s.chapters = items
	s.commit(ctx)
	return c, nil
}

// UpdateChapter replaces the chapter with the same id.
func (s *Store) UpdateChapter(ctx context.Context, c models.Chapter) (models.Chapter, error) {
	if err := validation.Struct(c); err != nil {
		return c, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.areas, c.AreaID, areaID) < 0 {
		return c, types.Validation("area %s does not exist", c.AreaID)
	}
	if err := update(s.chapters, c, chapterID, models.UnitChapter); err != nil {
		return c, err
	}
	s.commit(ctx)
	return c, nil
}

// DeleteChapter removes a chapter. Its reports stay in place.
func (s *Store) DeleteChapter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := remove(s.chapters, id, chapterID, "chapter")
	if err != nil {
		return err
	}
	s.chapters = items
	s.commit(ctx)
	return nil
}

// AddUser creates a user. A password is required.
func (s *Store) AddUser(ctx context.Context, u models.User) (models.User, error) {
	if err := validation.Struct(u); err != nil {
		return u, err
	}
	if u.Password == "" {
		return u, types.Validation("Password is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUserLocked(u); err != nil {
		return u, err
	}
	items, u, err := add(s.users, u, userID, func(u *models.User, id string) { u.ID = id })
	if err != nil {
		return u, err
	}
	s.users = items
	s.commit(ctx)
	return u, nil
}

// UpdateUser replaces the user with the same id. An empty password keeps
// the current one.
func (s *Store) UpdateUser(ctx context.Context, u models.User) (models.User, error) {
	if err := validation.Struct(u); err != nil {
		return u, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := find(s.users, u.ID, userID)
	if !ok {
		return u, types.NotFound("user %s not found", u.ID)
	}
	if u.Password == "" {
		u.Password = current.Password
	}
	if err := s.checkUserLocked(u); err != nil {
		return u, err
	}
	if err := update(s.users, u, userID, "user"); err != nil {
		return u, err
	}
	s.commit(ctx)
	return u, nil
}

// DeleteUser removes a user. Event reports they filed are kept.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := remove(s.users, id, userID, "user")
	if err != nil {
		return err
	}
	s.users = items
	s.commit(ctx)
	return nil
}

// checkUserLocked enforces the unit binding of u's role, unique usernames,
// and at most one supervisory officer per role and unit.
func (s *Store) checkUserLocked(u models.User) error {
	if u.Role == models.RoleAdmin {
		if u.UnitID != models.AdminUnitID {
			return types.Validation("Admin users must have unitId %q", models.AdminUnitID)
		}
	} else if !s.unitExistsLocked(u.Role.UnitKind(), u.UnitID) {
		return types.Validation("%s %s does not exist", u.Role.UnitKind(), u.UnitID)
	}

	for _, other := range s.users {
		if other.ID == u.ID && u.ID != "" {
			continue
		}
		if strings.EqualFold(other.Username, u.Username) {
			return types.Validation("username %s is taken", u.Username)
		}
		if u.Role.Supervisory() && other.Role == u.Role && other.UnitID == u.UnitID {
			return types.Validation("%s %s already has a %s", u.Role.UnitKind(), u.UnitID, u.Role)
		}
	}
	return nil
}

func (s *Store) unitExistsLocked(kind models.UnitKind, id string) bool {
	switch kind {
	case models.UnitDistrict:
		return indexOf(s.districts, id, districtID) >= 0
	case models.UnitZone:
		return indexOf(s.zones, id, zoneID) >= 0
	case models.UnitArea:
		return indexOf(s.areas, id, areaID) >= 0
	case models.UnitChapter:
		return indexOf(s.chapters, id, chapterID) >= 0
	}
	return false
}
