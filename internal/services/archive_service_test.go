package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/localnerve/lofreports/internal/logger"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/store"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateArchiveYear(t *testing.T) {
	assert.NoError(t, ValidateArchiveYear(2024, testNow))
	assert.ErrorIs(t, ValidateArchiveYear(2025, testNow), types.ErrValidation)
	assert.ErrorIs(t, ValidateArchiveYear(2030, testNow), types.ErrValidation)
	assert.ErrorIs(t, ValidateArchiveYear(0, testNow), types.ErrValidation)
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	st, err := store.Open(ctx, store.Options{Logger: logger.Discard(), Now: func() time.Time { return testNow }})
	require.NoError(t, err)
	_, err = st.SubmitEventReport(ctx, models.EventReport{
		ReportingOfficerID: "dc1",
		EventName:          "District training",
		EventDate:          "2024-11-02",
		EventType:          models.EventTraining,
		ReportMetric:       models.ReportMetric{Attendance: 80},
	})
	require.NoError(t, err)
	original := len(st.Snapshot().ChapterReports) + len(st.Snapshot().EventReports)

	svc := NewArchiveService(db, st, "fgbmfiLofReportingData", logger.Discard())
	outcome, err := svc.Archive(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, outcome.Recorded)
	assert.NotEmpty(t, outcome.ArchiveID)
	assert.Equal(t, 61, outcome.ArchivedCount)
	assert.Equal(t, original, outcome.ArchivedCount+outcome.RemainingCount)
	assert.Contains(t, string(outcome.Payload), "\n  \"archivedUpToYear\": 2024")

	var payload models.ArchivePayload
	require.NoError(t, json.Unmarshal(outcome.Payload, &payload))
	assert.Equal(t, testNow, payload.ArchiveDate)
	for _, r := range payload.ChapterReports {
		assert.LessOrEqual(t, r.Year, 2024)
	}
	require.Len(t, payload.EventReports, 1)

	for _, r := range st.Snapshot().ChapterReports {
		assert.Greater(t, r.Year, 2024)
	}

	summaries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, outcome.ArchiveID, summaries[0].ArchiveID)
	assert.Equal(t, 60, summaries[0].ChapterReportCount)
	assert.Equal(t, 1, summaries[0].EventReportCount)

	record, err := svc.Get(ctx, outcome.ArchiveID)
	require.NoError(t, err)
	assert.Equal(t, string(outcome.Payload), string(record.Payload.Bytes()), "downloads return the archived bytes unchanged")

	_, err = svc.Get(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestArchiveSurvivesRecordFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.Migrator().DropTable("report_archives"))

	st, err := store.Open(ctx, store.Options{Logger: logger.Discard(), Now: func() time.Time { return testNow }})
	require.NoError(t, err)

	outcome, err := NewArchiveService(db, st, "k", logger.Discard()).Archive(ctx, 2024)
	require.NoError(t, err)
	assert.False(t, outcome.Recorded)
	assert.Equal(t, 60, outcome.ArchivedCount)
	assert.Len(t, st.Snapshot().ChapterReports, 15)
}
