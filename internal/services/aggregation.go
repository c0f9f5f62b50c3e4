// aggregation.go
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

package services

import (
	"time"

	"github.com/localnerve/lofreports/internal/metrics"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/store"
)

// Aggregator computes hierarchy roll-ups over the store's current state.
type Aggregator struct {
	store   *store.Store
	orgName string
}

// NewAggregator creates an aggregator. orgName labels the global node.
func NewAggregator(st *store.Store, orgName string) *Aggregator {
	return &Aggregator{store: st, orgName: orgName}
}

// Aggregate rolls up the unit the role is bound to. It returns nil for
// Chapter Presidents, unknown roles, and units that do not exist.
func (a *Aggregator) Aggregate(role models.Role, unitID string, rng *models.DateRange) *models.AggregatedData {
	start := time.Now()
	result := Aggregate(a.store.Snapshot(), a.orgName, role, unitID, rng)
	if result != nil {
		metrics.AggregationDuration.WithLabelValues(string(result.Level)).Observe(time.Since(start).Seconds())
	}
	return result
}

// AggregateForUser resolves the user's role and unit, then aggregates.
func (a *Aggregator) AggregateForUser(userID string, rng *models.DateRange) *models.AggregatedData {
	user, ok := a.store.User(userID)
	if !ok {
		return nil
	}
	return a.Aggregate(user.Role, user.UnitID, rng)
}

// Aggregate is the pure roll-up over snapshot.
func Aggregate(snapshot models.Snapshot, orgName string, role models.Role, unitID string, rng *models.DateRange) *models.AggregatedData {
	t := newTree(snapshot, rng)

	switch role {
	case models.RoleFieldRepresentative:
		if area, ok := t.areas[unitID]; ok {
			return t.area(area)
		}
	case models.RoleNationalDirector:
		if zone, ok := t.zones[unitID]; ok {
			return t.zone(zone)
		}
	case models.RoleDistrictCoordinator, models.RoleDistrictAdmin:
		if district, ok := t.districts[unitID]; ok {
			return t.district(district)
		}
	case models.RoleAdmin:
		return t.global(orgName)
	}
	return nil
}

// tree indexes a snapshot with its reports already limited to the range.
type tree struct {
	snapshot  models.Snapshot
	districts map[string]models.District
	zones     map[string]models.Zone
	areas     map[string]models.Area

	chapterReports map[string][]models.ChapterReport
	eventReports   map[string][]models.EventReport
}

func newTree(snapshot models.Snapshot, rng *models.DateRange) *tree {
	t := &tree{
		snapshot:       snapshot,
		districts:      make(map[string]models.District, len(snapshot.Districts)),
		zones:          make(map[string]models.Zone, len(snapshot.Zones)),
		areas:          make(map[string]models.Area, len(snapshot.Areas)),
		chapterReports: make(map[string][]models.ChapterReport),
		eventReports:   make(map[string][]models.EventReport),
	}
	for _, d := range snapshot.Districts {
		if _, dup := t.districts[d.ID]; !dup {
			t.districts[d.ID] = d
		}
	}
	for _, z := range snapshot.Zones {
		if _, dup := t.zones[z.ID]; !dup {
			t.zones[z.ID] = z
		}
	}
	for _, a := range snapshot.Areas {
		if _, dup := t.areas[a.ID]; !dup {
			t.areas[a.ID] = a
		}
	}
	for _, r := range snapshot.ChapterReports {
		if rng != nil && !rng.Contains(r.RepresentativeDate()) {
			continue
		}
		t.chapterReports[r.ChapterID] = append(t.chapterReports[r.ChapterID], r)
	}
	for _, e := range snapshot.EventReports {
		if rng != nil {
			d, ok := e.Date()
			if !ok || !rng.Contains(d) {
				continue
			}
		}
		t.eventReports[e.ReportingOfficerID] = append(t.eventReports[e.ReportingOfficerID], e)
	}
	return t
}

// officerEvents returns the events of the first user holding role for unit.
func (t *tree) officerEvents(role models.Role, unitID string) []models.EventReport {
	for _, u := range t.snapshot.Users {
		if u.Role == role && u.UnitID == unitID {
			return append([]models.EventReport{}, t.eventReports[u.ID]...)
		}
	}
	return []models.EventReport{}
}

func (t *tree) chapter(c models.Chapter) *models.AggregatedData {
	reports := t.chapterReports[c.ID]
	node := &models.AggregatedData{
		Name:         c.Name,
		Level:        models.LevelChapter,
		ReportMetric: models.Sum(reports),
		Reports:      make([]models.Reportable, 0, len(reports)),
	}
	for _, r := range reports {
		node.Reports = append(node.Reports, r)
	}
	return node
}

// branch folds children and the owning officer's events into one node.
func branch(name string, level models.Level, children []*models.AggregatedData, events []models.EventReport) *models.AggregatedData {
	node := &models.AggregatedData{
		Name:     name,
		Level:    level,
		Reports:  []models.Reportable{},
		Children: children,
		Events:   events,
	}
	for _, child := range children {
		node.Reports = append(node.Reports, child.Reports...)
	}
	for _, e := range events {
		node.Reports = append(node.Reports, e)
	}
	node.ReportMetric = models.Sum(node.Reports)
	return node
}

func (t *tree) area(a models.Area) *models.AggregatedData {
	children := []*models.AggregatedData{}
	for _, c := range t.snapshot.Chapters {
		if c.AreaID == a.ID {
			children = append(children, t.chapter(c))
		}
	}
	return branch(a.Name, models.LevelArea, children, t.officerEvents(models.RoleFieldRepresentative, a.ID))
}

func (t *tree) zone(z models.Zone) *models.AggregatedData {
	children := []*models.AggregatedData{}
	for _, a := range t.snapshot.Areas {
		if a.ZoneID == z.ID {
			children = append(children, t.area(a))
		}
	}
	return branch(z.Name, models.LevelZone, children, t.officerEvents(models.RoleNationalDirector, z.ID))
}

func (t *tree) district(d models.District) *models.AggregatedData {
	children := []*models.AggregatedData{}
	for _, z := range t.snapshot.Zones {
		if z.DistrictID == d.ID {
			children = append(children, t.zone(z))
		}
	}
	return branch(d.Name, models.LevelDistrict, children, t.officerEvents(models.RoleDistrictCoordinator, d.ID))
}

// global nests every district. Its events list repeats the districts'
// officer events for display; they are already counted in the reports.
func (t *tree) global(name string) *models.AggregatedData {
	children := []*models.AggregatedData{}
	events := []models.EventReport{}
	for _, d := range t.snapshot.Districts {
		node := t.district(d)
		children = append(children, node)
		events = append(events, node.Events...)
	}
	node := branch(name, models.LevelGlobal, children, nil)
	node.Events = events
	return node
}
