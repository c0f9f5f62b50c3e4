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

package store

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/localnerve/lofreports/internal/metrics"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/localnerve/lofreports/internal/validation"
)

// SubmitChapterReports upserts every report keyed by (chapter, year, month).
// The batch is validated as a whole before anything changes, then saved once.
func (s *Store) SubmitChapterReports(ctx context.Context, reports []models.ChapterReport) ([]models.ChapterReport, error) {
	if len(reports) == 0 {
		return nil, types.Validation("no reports submitted")
	}
	for _, r := range reports {
		if err := validation.Struct(r); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]models.ChapterReport, 0, len(reports))
	for _, r := range reports {
		chapter, ok := find(s.chapters, r.ChapterID, chapterID)
		if !ok {
			return nil, types.NotFound("chapter %s not found", r.ChapterID)
		}
		if r.ChapterName == "" {
			r.ChapterName = chapter.Name
		}
		stored = append(stored, r)
	}

	for i, r := range stored {
		key := r.Key()
		r.ID = key.ID()
		if _, exists := s.chapterReports[key]; !exists {
			s.reportOrder = append(s.reportOrder, key)
		}
		s.chapterReports[key] = r
		stored[i] = r
	}
	metrics.ReportsSubmitted.WithLabelValues("chapter").Add(float64(len(stored)))
	s.commit(ctx)
	return stored, nil
}

// SubmitChapterReport upserts a single chapter report.
func (s *Store) SubmitChapterReport(ctx context.Context, r models.ChapterReport) (models.ChapterReport, error) {
	stored, err := s.SubmitChapterReports(ctx, []models.ChapterReport{r})
	if err != nil {
		return r, err
	}
	return stored[0], nil
}

// SubmitEventReport appends an event report with a fresh id. The officer
// role is taken from the officer's user record.
func (s *Store) SubmitEventReport(ctx context.Context, e models.EventReport) (models.EventReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	officer, ok := find(s.users, e.ReportingOfficerID, userID)
	if !ok {
		return e, types.NotFound("user %s not found", e.ReportingOfficerID)
	}
	if !officer.Role.Supervisory() {
		return e, types.Validation("%s cannot file event reports", officer.Role)
	}
	e.OfficerRole = officer.Role
	if err := validation.Struct(e); err != nil {
		return e, err
	}

	e.ID = uuid.NewString()
	s.eventReports = append(s.eventReports, e)
	metrics.ReportsSubmitted.WithLabelValues("event").Inc()
	s.commit(ctx)
	return e, nil
}

// ChapterReports returns the chapter's reports, optionally limited to rng by
// representative date, newest first.
func (s *Store) ChapterReports(chapter string, rng *models.DateRange) []models.ChapterReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reports []models.ChapterReport
	for _, key := range s.reportOrder {
		if key.ChapterID != chapter {
			continue
		}
		r := s.chapterReports[key]
		if rng != nil && !rng.Contains(r.RepresentativeDate()) {
			continue
		}
		reports = append(reports, r)
	}
	SortNewestFirst(reports)
	return reports
}

// LatestChapterReport returns the chapter's most recent report.
func (s *Store) LatestChapterReport(chapter string) (models.ChapterReport, bool) {
	reports := s.ChapterReports(chapter, nil)
	if len(reports) == 0 {
		return models.ChapterReport{}, false
	}
	return reports[0], true
}

// EventReportsByOfficer returns the officer's event reports, optionally limited to
// rng. Reports with unparseable dates are excluded only when filtering.
func (s *Store) EventReportsByOfficer(officer string, rng *models.DateRange) []models.EventReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []models.EventReport
	for _, e := range s.eventReports {
		if e.ReportingOfficerID != officer {
			continue
		}
		if rng != nil {
			d, ok := e.Date()
			if !ok || !rng.Contains(d) {
				continue
			}
		}
		events = append(events, e)
	}
	return events
}

// SortNewestFirst orders reports by year then month, descending.
func SortNewestFirst(reports []models.ChapterReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Year != reports[j].Year {
			return reports[i].Year > reports[j].Year
		}
		return reports[i].Month > reports[j].Month
	})
}
