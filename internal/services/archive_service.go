// archive_service.go
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
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/store"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// ArchiveService runs year-end archival and keeps a record of every archive
// payload it produced.
type ArchiveService struct {
	db       *gorm.DB
	store    *store.Store
	stateKey string
	log      *logrus.Entry
}

// ArchiveOutcome is the result of one archival run.
type ArchiveOutcome struct {
	ArchiveID      string          `json:"archiveId,omitempty"`
	ArchivedCount  int             `json:"archivedCount"`
	RemainingCount int             `json:"remainingCount"`
	Recorded       bool            `json:"recorded"`
	Payload        json.RawMessage `json:"payload"`
}

// ArchiveSummary describes a recorded archive without its payload.
type ArchiveSummary struct {
	ArchiveID          string    `json:"archiveId"`
	ArchivedUpToYear   int       `json:"archivedUpToYear"`
	ChapterReportCount int       `json:"chapterReportCount"`
	EventReportCount   int       `json:"eventReportCount"`
	ArchiveDate        time.Time `json:"archiveDate"`
}

// NewArchiveService creates an archive service.
func NewArchiveService(db *gorm.DB, st *store.Store, stateKey string, log *logrus.Entry) *ArchiveService {
	return &ArchiveService{db: db, store: st, stateKey: stateKey, log: log}
}

// ValidateArchiveYear accepts only years before now's year.
func ValidateArchiveYear(year int, now time.Time) error {
	if year <= 0 || year >= now.Year() {
		return types.Validation("archive year must be a past year, got %d", year)
	}
	return nil
}

// EncodeArchive renders the payload as two-space indented JSON.
func EncodeArchive(payload models.ArchivePayload) ([]byte, error) {
	return json.MarshalIndent(payload, "", "  ")
}

// Archive moves every report up to and including year out of live state.
// The payload is returned to the caller and recorded in the database; a
// failed record is logged and does not undo the archive.
func (s *ArchiveService) Archive(ctx context.Context, year int) (*ArchiveOutcome, error) {
	result, err := s.store.ArchiveThrough(ctx, year, s.store.Now().UTC(), EncodeArchive)
	if err != nil {
		return nil, err
	}

	outcome := &ArchiveOutcome{
		ArchivedCount:  len(result.Payload.ChapterReports) + len(result.Payload.EventReports),
		RemainingCount: result.Retained,
		Payload:        result.Encoded,
	}

	record := models.ReportArchive{
		ArchiveID:          uuid.NewString(),
		StateKey:           s.stateKey,
		ArchivedUpToYear:   year,
		ChapterReportCount: len(result.Payload.ChapterReports),
		EventReportCount:   len(result.Payload.EventReports),
		ArchiveDate:        result.Payload.ArchiveDate,
		Payload:            models.NewJSON(result.Encoded),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		s.log.WithError(err).WithField("year", year).Error("failed to record archive")
	} else {
		outcome.ArchiveID = record.ArchiveID
		outcome.Recorded = true
	}

	s.log.WithFields(logrus.Fields{
		"year":      year,
		"archived":  outcome.ArchivedCount,
		"remaining": outcome.RemainingCount,
	}).Info("year-end archive complete")
	return outcome, nil
}

// List returns the recorded archives, newest first.
func (s *ArchiveService) List(ctx context.Context) ([]ArchiveSummary, error) {
	var rows []models.ReportArchive
	err := s.db.WithContext(ctx).
		Clauses(hints.Comment("select", "report archive listing")).
		Select("archive_id", "archived_up_to_year", "chapter_report_count", "event_report_count", "archive_date").
		Where("state_key = ?", s.stateKey).
		Order("archive_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, types.Persistence("failed to list archives", err)
	}

	summaries := make([]ArchiveSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, ArchiveSummary{
			ArchiveID:          row.ArchiveID,
			ArchivedUpToYear:   row.ArchivedUpToYear,
			ChapterReportCount: row.ChapterReportCount,
			EventReportCount:   row.EventReportCount,
			ArchiveDate:        row.ArchiveDate,
		})
	}
	return summaries, nil
}

// Get returns a recorded archive with its payload.
func (s *ArchiveService) Get(ctx context.Context, id string) (*models.ReportArchive, error) {
	var row models.ReportArchive
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{Logger: s.db.Logger.LogMode(logger.Silent)}).
		Where("archive_id = ? AND state_key = ?", id, s.stateKey).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("archive %s not found", id)
		}
		return nil, types.Persistence("failed to read archive", err)
	}
	return &row, nil
}
