// scope.go
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

import "github.com/localnerve/lofreports/internal/models"

// Scope is the part of the organization an actor may manage. Admins manage
// everything; a District Admin manages their district's subtree, the users
// bound to it, and themselves.
type Scope struct {
	all       bool
	self      string
	districts map[string]bool
	zones     map[string]bool
	areas     map[string]bool
	chapters  map[string]bool
}

// ManagementScope computes the actor's scope against the current hierarchy.
func (s *Store) ManagementScope(actor models.User) Scope {
	scope := Scope{
		self:      actor.ID,
		districts: map[string]bool{},
		zones:     map[string]bool{},
		areas:     map[string]bool{},
		chapters:  map[string]bool{},
	}
	switch actor.Role {
	case models.RoleAdmin:
		scope.all = true
		return scope
	case models.RoleDistrictAdmin:
	default:
		return scope
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scope.districts[actor.UnitID] = true
	for _, z := range s.zones {
		if scope.districts[z.DistrictID] {
			scope.zones[z.ID] = true
		}
	}
	for _, a := range s.areas {
		if scope.zones[a.ZoneID] {
			scope.areas[a.ID] = true
		}
	}
	for _, c := range s.chapters {
		if scope.areas[c.AreaID] {
			scope.chapters[c.ID] = true
		}
	}
	return scope
}

// All reports whether the scope is unrestricted.
func (sc Scope) All() bool { return sc.all }

// Unit reports whether the unit of the given kind is in scope.
func (sc Scope) Unit(kind models.UnitKind, id string) bool {
	if sc.all {
		return true
	}
	switch kind {
	case models.UnitDistrict:
		return sc.districts[id]
	case models.UnitZone:
		return sc.zones[id]
	case models.UnitArea:
		return sc.areas[id]
	case models.UnitChapter:
		return sc.chapters[id]
	}
	return false
}

// District reports whether d is in scope.
func (sc Scope) District(d models.District) bool { return sc.Unit(models.UnitDistrict, d.ID) }

// Zone reports whether z belongs to a district in scope.
func (sc Scope) Zone(z models.Zone) bool { return sc.Unit(models.UnitDistrict, z.DistrictID) }

// Area reports whether a belongs to a zone in scope.
func (sc Scope) Area(a models.Area) bool { return sc.Unit(models.UnitZone, a.ZoneID) }

// Chapter reports whether c belongs to an area in scope.
func (sc Scope) Chapter(c models.Chapter) bool { return sc.Unit(models.UnitArea, c.AreaID) }

// User reports whether u is the actor or is bound to a unit in scope. Only
// Admins manage Admin accounts other than their own.
func (sc Scope) User(u models.User) bool {
	if sc.all || (u.ID != "" && u.ID == sc.self) {
		return true
	}
	if u.Role == models.RoleAdmin {
		return false
	}
	return sc.Unit(u.Role.UnitKind(), u.UnitID)
}

// Filter keeps the items allowed by in.
func Filter[T any](items []T, in func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if in(item) {
			out = append(out, item)
		}
	}
	return out
}

// CanViewChapter reports whether the chapter lies inside the unit the user
// is bound to. Admins see every chapter.
func (s *Store) CanViewChapter(user models.User, id string) bool {
	if user.Role == models.RoleAdmin {
		return true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	kind := user.Role.UnitKind()
	ch, ok := find(s.chapters, id, chapterID)
	if !ok {
		return false
	}
	if kind == models.UnitChapter {
		return ch.ID == user.UnitID
	}
	area, ok := find(s.areas, ch.AreaID, areaID)
	if !ok {
		return false
	}
	if kind == models.UnitArea {
		return area.ID == user.UnitID
	}
	zone, ok := find(s.zones, area.ZoneID, zoneID)
	if !ok {
		return false
	}
	if kind == models.UnitZone {
		return zone.ID == user.UnitID
	}
	return kind == models.UnitDistrict && zone.DistrictID == user.UnitID
}
