// integration_test.go
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

package containers_test

import (
	"context"
	"testing"
	"time"

	"github.com/localnerve/lofreports/internal/containers"
	"github.com/localnerve/lofreports/internal/database"
	"github.com/localnerve/lofreports/internal/logger"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/services"
	"github.com/localnerve/lofreports/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

// TestMariaDBStatePersistence runs the state document and archive record
// against a real MariaDB server
func TestMariaDBStatePersistence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	log := logger.Discard()

	opts := containers.OptionsFromEnv()
	opts.Type = "mariadb"
	opts.Image = "mariadb:11.4"
	opts.Port = "3306"
	opts.DataInMemory = true

	dbc, err := containers.Start(ctx, opts, log)
	require.NoError(t, err)
	t.Cleanup(func() { dbc.Terminate(context.Background(), log) })

	db, err := dbc.Connect(log)
	require.NoError(t, err)
	defer database.Close(db)
	require.NoError(t, database.AutoMigrate(db))

	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
	repo := services.NewStateRepository(db, dbc.Config.StateKey)
	storeOpts := store.Options{
		Persister: repo,
		Logger:    log,
		Now:       func() time.Time { return now },
	}

	st, err := store.Open(ctx, storeOpts)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), st.Version())

	_, err = st.SubmitChapterReport(ctx, models.ChapterReport{ChapterID: "chap1", Month: 4, Year: 2025, ReportMetric: models.ReportMetric{Attendance: 77}})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), st.Version())

	reopened, err := store.Open(ctx, storeOpts)
	require.NoError(t, err)
	latest, ok := reopened.LatestChapterReport("chap1")
	require.True(t, ok)
	assert.Equal(t, 77.0, latest.Attendance)

	archives := services.NewArchiveService(db, reopened, dbc.Config.StateKey, log)
	outcome, err := archives.Archive(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, outcome.Recorded)
	assert.Equal(t, 60, outcome.ArchivedCount)

	summaries, err := archives.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 60, summaries[0].ChapterReportCount)

	version, err := repo.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, reopened.Version(), version)
}
