// handlers_test.go
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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	glebarez "github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/database"
	"github.com/localnerve/lofreports/internal/logger"
	"github.com/localnerve/lofreports/internal/middleware"
	"github.com/localnerve/lofreports/internal/services"
	"github.com/localnerve/lofreports/internal/store"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

type fakeNarrator struct {
	calls int
	req   services.NarrativeRequest
	err   error
}

func (f *fakeNarrator) Generate(_ context.Context, req services.NarrativeRequest) (*services.Narrative, error) {
	f.calls++
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.Narrative{
		OpeningRemark:    "Well done",
		KeyAchievements:  []string{"Salvations"},
		AreasForFocus:    []string{"Attendance"},
		ConcludingRemark: "Keep going",
	}, nil
}

type testEnv struct {
	app      *fiber.App
	store    *store.Store
	narrator *fakeNarrator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(glebarez.Open(filepath.Join(t.TempDir(), "lof.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	st, err := store.Open(context.Background(), store.Options{
		Persister: services.NewStateRepository(db, "test"),
		Logger:    logger.Discard(),
		Now:       func() time.Time { return testNow },
	})
	require.NoError(t, err)

	aggregator := services.NewAggregator(st, "FGBMFI-NG LOF SW7")
	narrator := &fakeNarrator{}
	auth := middleware.NewAuth(st, time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	api := app.Group("/api", middleware.StateVersion(st))
	RegisterRoutes(api, auth, Handlers{
		Auth:    &AuthHandler{Store: st, Auth: auth},
		Org:     &OrgHandler{Store: st},
		Reports: &ReportHandler{Store: st},
		Dashboard: &DashboardHandler{
			Aggregator: aggregator,
			Dashboard:  services.NewDashboardService(st, aggregator),
			Narrator:   narrator,
		},
		Archive: &ArchiveHandler{
			Store:    st,
			Archives: services.NewArchiveService(db, st, "test", logger.Discard()),
		},
	})
	app.Use(NotFound)

	return &testEnv{app: app, store: st, narrator: narrator}
}

func (e *testEnv) do(t *testing.T, method, target, cookie string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", middleware.SessionCookie+"="+cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login signs in and returns the session cookie value
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"username": username, "password": password})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie.Value
		}
	}
	t.Fatalf("no %s cookie in login response", middleware.SessionCookie)
	return ""
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target), string(body))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"username": "  CPTiti ", "password": "password123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.StateVersionHeader))

	var user map[string]interface{}
	decode(t, resp, &user)
	assert.Equal(t, "cp1", user["id"])
	assert.NotContains(t, user, "password")

	cookie := env.login(t, "cptiti", "password123")
	resp = env.do(t, fiber.MethodGet, "/api/auth/me", cookie, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &user)
	assert.Equal(t, "CP Titi", user["name"])
	assert.Equal(t, "Chapter President", user["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"username": "cptiti", "password": "PASSWORD123"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "Invalid username or password", body["message"])
	assert.Equal(t, string(types.KindAuth), body["type"])
	assert.Equal(t, false, body["ok"])
}

func TestRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/api/auth/me", "/api/dashboard", "/api/reports/chapter/chap1", "/api/org/users"} {
		resp := env.do(t, fiber.MethodGet, target, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, target)
	}

	resp := env.do(t, fiber.MethodGet, "/api/auth/me", "not-a-session", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "admin")

	resp := env.do(t, fiber.MethodPost, "/api/auth/logout", cookie, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/auth/me", cookie, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestDeletedUserLosesSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "frbola", "password123")

	require.NoError(t, env.store.DeleteUser(context.Background(), "fr3"))

	resp := env.do(t, fiber.MethodGet, "/api/auth/me", cookie, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "fradebola", "password123")

	resp := env.do(t, fiber.MethodPost, "/api/auth/password", cookie, fiber.Map{"currentPassword": "wrong", "newPassword": "n3w"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, fiber.MethodPost, "/api/auth/password", cookie, fiber.Map{"currentPassword": "password123", "newPassword": ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, fiber.MethodPost, "/api/auth/password", cookie, fiber.Map{"currentPassword": "password123", "newPassword": "n3w"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env.login(t, "fradebola", "n3w")
}

func TestChapterPresidentSubmitsOwnChapter(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "cptiti", "password123")

	resp := env.do(t, fiber.MethodPost, "/api/reports/chapter", cookie, fiber.Map{
		"month": 4, "year": 2025, "membership": 60, "attendance": 48, "offering": 1000,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		OK         bool   `json:"ok"`
		NewVersion string `json:"newVersion"`
		Data       []struct {
			ID          string `json:"id"`
			ChapterName string `json:"chapterName"`
		} `json:"data"`
	}
	decode(t, resp, &body)
	assert.True(t, body.OK)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "chap1-2025-4", body.Data[0].ID)
	assert.Equal(t, "Lekki Chapter", body.Data[0].ChapterName)

	latest, ok := env.store.LatestChapterReport("chap1")
	require.True(t, ok)
	assert.Equal(t, 4, latest.Month)
	assert.Equal(t, 48.0, latest.Attendance)

	resp = env.do(t, fiber.MethodPost, "/api/reports/chapter", cookie, fiber.Map{
		"chapterId": "chap2", "month": 4, "year": 2025,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestChapterReportSubmissionRules(t *testing.T) {
	env := newTestEnv(t)

	fr := env.login(t, "fradebola", "password123")
	resp := env.do(t, fiber.MethodPost, "/api/reports/chapter", fr, fiber.Map{"chapterId": "chap1", "month": 4, "year": 2025})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	admin := env.login(t, "admin", "admin")
	resp = env.do(t, fiber.MethodPost, "/api/reports/chapter", admin, []fiber.Map{
		{"chapterId": "chap3", "month": 4, "year": 2025, "attendance": 10},
		{"chapterId": "chap4", "month": 4, "year": 2025, "attendance": 20},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Data []map[string]interface{} `json:"data"`
	}
	decode(t, resp, &body)
	assert.Len(t, body.Data, 2)

	resp = env.do(t, fiber.MethodPost, "/api/reports/chapter", admin, fiber.Map{"chapterId": "chap3", "month": 13, "year": 2025})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, fiber.MethodPost, "/api/reports/chapter", admin, fiber.Map{"chapterId": "nope", "month": 1, "year": 2025})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetChapterReportsIsScoped(t *testing.T) {
	env := newTestEnv(t)
	fr := env.login(t, "fradebola", "password123")

	resp := env.do(t, fiber.MethodGet, "/api/reports/chapter/chap2?start=2025-01-01&end=2025-03-31", fr, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var reports []struct {
		ID    string `json:"id"`
		Month int    `json:"month"`
	}
	decode(t, resp, &reports)
	require.Len(t, reports, 3)
	assert.Equal(t, "chap2-2025-3", reports[0].ID)
	assert.Equal(t, 1, reports[2].Month)

	resp = env.do(t, fiber.MethodGet, "/api/reports/chapter/chap3", fr, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/reports/chapter/missing", fr, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/reports/chapter/chap2?start=2025-02-01&end=2025-01-01", fr, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/reports/chapter/chap2?start=2030-01-01&end=2030-12-31", fr, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", readBody(t, resp))
}

func TestExportChapterReports(t *testing.T) {
	env := newTestEnv(t)
	cp := env.login(t, "cptiti", "password123")

	resp := env.do(t, fiber.MethodGet, "/api/reports/chapter/chap1/export?start=2025-01-01&end=2025-03-31", cp, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "Chapter_Report_Lekki_Chapter_2025-01-01_to_2025-03-31.csv")

	lines := bytes.Split([]byte(readBody(t, resp)), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Equal(t, "Month,Year,Membership,Attendance,First Timers,Salvations,Holy Ghost Baptism,Membership Decision,Offering (₦)", string(lines[0]))
	assert.True(t, bytes.HasPrefix(lines[1], []byte("March,2025,")))
}

func TestEventReports(t *testing.T) {
	env := newTestEnv(t)
	fr := env.login(t, "fradebola", "password123")

	resp := env.do(t, fiber.MethodPost, "/api/reports/event", fr, fiber.Map{
		"eventName": "Beach Outreach", "eventDate": "2025-02-14", "eventType": "Outreach",
		"attendance": 35, "salvations": 4,
		// Ignored: officers file under their own account
		"reportingOfficerId": "nd1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Data struct {
			ID                 string `json:"id"`
			ReportingOfficerID string `json:"reportingOfficerId"`
			OfficerRole        string `json:"officerRole"`
		} `json:"data"`
	}
	decode(t, resp, &body)
	assert.NotEmpty(t, body.Data.ID)
	assert.Equal(t, "fr1", body.Data.ReportingOfficerID)
	assert.Equal(t, "Field Representative", body.Data.OfficerRole)

	resp = env.do(t, fiber.MethodPost, "/api/reports/event", fr, fiber.Map{
		"eventName": "Bad", "eventDate": "14/02/2025", "eventType": "Outreach",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/reports/event?start=2025-02-01&end=2025-02-28", fr, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var events []map[string]interface{}
	decode(t, resp, &events)
	assert.Len(t, events, 1)

	cp := env.login(t, "cptiti", "password123")
	resp = env.do(t, fiber.MethodPost, "/api/reports/event", cp, fiber.Map{"eventName": "x", "eventDate": "2025-02-14", "eventType": "Meeting"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)

	cp := env.login(t, "cptiti", "password123")
	resp := env.do(t, fiber.MethodGet, "/api/dashboard", cp, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var dash services.Dashboard
	decode(t, resp, &dash)
	assert.Equal(t, "Latest Report Summary (March 2025)", dash.Title)
	assert.True(t, dash.HasData)
	assert.Len(t, dash.Cards, 7)

	nd := env.login(t, "ndfunke", "password123")
	resp = env.do(t, fiber.MethodGet, "/api/dashboard", nd, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &dash)
	assert.Equal(t, "Zonal Summary: Island Zone (Year-to-Date)", dash.Title)
}

func TestDashboardAggregate(t *testing.T) {
	env := newTestEnv(t)
	fr := env.login(t, "fradebola", "password123")

	resp := env.do(t, fiber.MethodGet, "/api/dashboard/aggregate?start=2025-01-01&end=2025-03-31", fr, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var data struct {
		Name     string                   `json:"name"`
		Level    string                   `json:"level"`
		Reports  []map[string]interface{} `json:"reports"`
		Children []map[string]interface{} `json:"children"`
		Events   []map[string]interface{} `json:"events"`
	}
	decode(t, resp, &data)
	assert.Equal(t, "Lekki Area", data.Name)
	assert.Equal(t, "area", data.Level)
	assert.Len(t, data.Children, 2)
	assert.Len(t, data.Reports, 6)
	assert.NotNil(t, data.Events)

	resp = env.do(t, fiber.MethodGet, "/api/dashboard/aggregate?compare=true", fr, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/dashboard/aggregate?start=2025-01-01&end=2025-03-31&compare=1", fr, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var comparison struct {
		PreviousPeriod services.Period   `json:"previousPeriod"`
		Changes        []services.Change `json:"changes"`
	}
	decode(t, resp, &comparison)
	assert.Len(t, comparison.Changes, 7)
	assert.Equal(t, services.Period{Start: "2024-10-03", End: "2024-12-31"}, comparison.PreviousPeriod)

	cp := env.login(t, "cptiti", "password123")
	resp = env.do(t, fiber.MethodGet, "/api/dashboard/aggregate", cp, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestDashboardAggregateForMissingUnit(t *testing.T) {
	env := newTestEnv(t)
	fr := env.login(t, "frbola", "password123")
	require.NoError(t, env.store.DeleteArea(context.Background(), "area3"))

	resp := env.do(t, fiber.MethodGet, "/api/dashboard/aggregate", fr, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDashboardExport(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin", "admin")

	resp := env.do(t, fiber.MethodGet, "/api/dashboard/export", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "Admin_Report_all_time.csv")
	body := readBody(t, resp)
	assert.True(t, bytes.HasPrefix([]byte(body), []byte("Metric,Total\nMembership,")), body)
}

func TestDashboardNarrative(t *testing.T) {
	env := newTestEnv(t)
	nd := env.login(t, "ndzainab", "password123")

	resp := env.do(t, fiber.MethodPost, "/api/dashboard/narrative?start=2025-01-01&end=2025-03-31", nd, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var narrative services.Narrative
	decode(t, resp, &narrative)
	assert.Equal(t, "Well done", narrative.OpeningRemark)
	assert.Equal(t, 1, env.narrator.calls)
	assert.Equal(t, "ND Zainab", env.narrator.req.Name)
	assert.Equal(t, "zone", string(env.narrator.req.Level))

	env.narrator.err = types.ExternalService("narrative request failed", errors.New("boom"))
	resp = env.do(t, fiber.MethodPost, "/api/dashboard/narrative", nd, nil)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestOrgManagementScope(t *testing.T) {
	env := newTestEnv(t)
	da := env.login(t, "dadavid", "password123")

	resp := env.do(t, fiber.MethodGet, "/api/org/users", da, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var users []map[string]interface{}
	decode(t, resp, &users)
	assert.Len(t, users, 12)
	for _, u := range users {
		assert.NotContains(t, u, "password")
	}

	resp = env.do(t, fiber.MethodPost, "/api/org/districts", da, fiber.Map{"name": "North 1"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, fiber.MethodPost, "/api/org/zones", da, fiber.Map{"name": "Lagoon Zone", "districtId": "dist1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var created struct {
		Data map[string]interface{} `json:"data"`
	}
	decode(t, resp, &created)
	assert.NotEmpty(t, created.Data["id"])

	resp = env.do(t, fiber.MethodPut, "/api/org/users/da1", da, fiber.Map{
		"name": "DA David", "role": "Admin", "unitId": "admin", "username": "dadavid",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, fiber.MethodPut, "/api/org/users/admin", da, fiber.Map{
		"name": "Admin", "role": "Admin", "unitId": "admin", "username": "admin",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, fiber.MethodPut, "/api/org/chapters/chap5", da, fiber.Map{"name": "Festac Town Chapter", "areaId": "area3"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	chapter, _ := env.store.Chapter("chap5")
	assert.Equal(t, "Festac Town Chapter", chapter.Name)

	resp = env.do(t, fiber.MethodDelete, "/api/org/areas/missing", da, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/org/widgets", da, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	cp := env.login(t, "cptiti", "password123")
	resp = env.do(t, fiber.MethodGet, "/api/org/districts", cp, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestOrgAdminManagesUsers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin", "admin")

	resp := env.do(t, fiber.MethodPost, "/api/org/districts", admin, fiber.Map{"name": "North 1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, fiber.MethodPost, "/api/org/users", admin, fiber.Map{
		"name": "FR Second", "role": "Field Representative", "unitId": "area1", "username": "frsecond", "password": "x",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "area1 already has a Field Representative")

	resp = env.do(t, fiber.MethodPost, "/api/org/users", admin, fiber.Map{
		"name": "CP New", "role": "Chapter President", "unitId": "chap2", "username": "cpnew", "password": "x",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var created struct {
		Data map[string]interface{} `json:"data"`
	}
	decode(t, resp, &created)
	assert.NotContains(t, created.Data, "password")

	env.login(t, "CPNEW", "x")

	resp = env.do(t, fiber.MethodDelete, "/api/org/users/"+created.Data["id"].(string), admin, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestArchiveRoutes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin", "admin")

	resp := env.do(t, fiber.MethodPost, "/api/admin/archive", admin, fiber.Map{"year": 2025})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, fiber.MethodPost, "/api/admin/archive", admin, fiber.Map{"year": "2024"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Data services.ArchiveOutcome `json:"data"`
	}
	decode(t, resp, &body)
	assert.Equal(t, 60, body.Data.ArchivedCount)
	assert.Equal(t, 15, body.Data.RemainingCount)
	assert.True(t, body.Data.Recorded)
	assert.Len(t, env.store.Snapshot().ChapterReports, 15)

	resp = env.do(t, fiber.MethodGet, "/api/admin/archives", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var summaries []services.ArchiveSummary
	decode(t, resp, &summaries)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2024, summaries[0].ArchivedUpToYear)

	resp = env.do(t, fiber.MethodGet, "/api/admin/archives/"+body.Data.ArchiveID, admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "fgbmfi_lof_archive_up_to_2024.json")
	var payload struct {
		ArchivedUpToYear int               `json:"archivedUpToYear"`
		ChapterReports   []json.RawMessage `json:"chapterReports"`
	}
	decode(t, resp, &payload)
	assert.Equal(t, 2024, payload.ArchivedUpToYear)
	assert.Len(t, payload.ChapterReports, 60)

	resp = env.do(t, fiber.MethodGet, "/api/admin/archives/missing", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	dc := env.login(t, "dcgrace", "password123")
	resp = env.do(t, fiber.MethodGet, "/api/admin/archives", dc, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet, "/api/nothing/here", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
