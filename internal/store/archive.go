// archive.go
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
	"time"

	"github.com/localnerve/lofreports/internal/metrics"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/types"
)

// ArchiveResult describes a completed year-end archival.
type ArchiveResult struct {
	Payload  models.ArchivePayload
	Encoded  []byte
	Retained int
}

// Encoder serializes an archive payload.
type Encoder func(models.ArchivePayload) ([]byte, error)

// ArchiveThrough moves every chapter report with year <= year, and every
// event report whose date falls in such a year, into an archive payload.
// Event reports with unparseable dates are retained. The payload is encoded
// before live state changes, so an encoding failure leaves state untouched.
func (s *Store) ArchiveThrough(ctx context.Context, year int, archivedAt time.Time, encode Encoder) (ArchiveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := models.ArchivePayload{
		ArchiveDate:      archivedAt,
		ArchivedUpToYear: year,
		ChapterReports:   []models.ChapterReport{},
		EventReports:     []models.EventReport{},
	}

	var keepOrder []models.ReportKey
	for _, key := range s.reportOrder {
		if key.Year <= year {
			payload.ChapterReports = append(payload.ChapterReports, s.chapterReports[key])
		} else {
			keepOrder = append(keepOrder, key)
		}
	}

	var keepEvents []models.EventReport
	for _, e := range s.eventReports {
		if d, ok := e.Date(); ok && d.Year() <= year {
			payload.EventReports = append(payload.EventReports, e)
		} else {
			keepEvents = append(keepEvents, e)
		}
	}

	encoded, err := encode(payload)
	if err != nil {
		return ArchiveResult{}, types.Persistence("failed to encode archive", err)
	}

	for _, r := range payload.ChapterReports {
		delete(s.chapterReports, r.Key())
	}
	s.reportOrder = keepOrder
	s.eventReports = keepEvents

	metrics.ReportsArchived.WithLabelValues("chapter").Add(float64(len(payload.ChapterReports)))
	metrics.ReportsArchived.WithLabelValues("event").Add(float64(len(payload.EventReports)))
	s.commit(ctx)

	return ArchiveResult{
		Payload:  payload,
		Encoded:  encoded,
		Retained: len(keepOrder) + len(keepEvents),
	}, nil
}
