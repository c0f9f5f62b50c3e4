package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/localnerve/lofreports/internal/logger"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

type memPersister struct {
	mu      sync.Mutex
	stored  *models.Snapshot
	loadErr error
	saveErr error
	saves   int
	version uint64
}

func (p *memPersister) Load(context.Context) (*models.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stored, p.loadErr
}

func (p *memPersister) Save(_ context.Context, snapshot models.Snapshot) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.saveErr != nil {
		return 0, p.saveErr
	}
	p.version++
	p.stored = &snapshot
	return p.version, nil
}

func openTestStore(t *testing.T, p *memPersister) *Store {
	t.Helper()
	s, err := Open(context.Background(), Options{
		Persister: p,
		Logger:    logger.Discard(),
		Now:       func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return s
}

func TestOpenSeedsWhenNothingStored(t *testing.T) {
	p := &memPersister{}
	s := openTestStore(t, p)

	snap := s.Snapshot()
	assert.Len(t, snap.Districts, 1)
	assert.Len(t, snap.Zones, 2)
	assert.Len(t, snap.Areas, 3)
	assert.Len(t, snap.Chapters, 5)
	assert.Len(t, snap.Users, 13)
	// 12 months of 2024 plus January through March 2025, for 5 chapters
	assert.Len(t, snap.ChapterReports, 75)
	assert.Empty(t, snap.EventReports)

	assert.Equal(t, 1, p.saves)
	assert.Equal(t, uint64(1), s.Version())
}

func TestSeedReportValues(t *testing.T) {
	snap, err := Seed(testNow)
	require.NoError(t, err)

	first := snap.ChapterReports[0]
	assert.Equal(t, "chap1-2024-1", first.ID)
	assert.Equal(t, "Lekki Chapter", first.ChapterName)
	assert.Equal(t, models.ReportMetric{
		Membership:         52,
		Attendance:         43,
		FirstTimers:        6,
		Salvations:         4,
		HolyGhostBaptism:   2,
		MembershipDecision: 3,
		Offering:           50500,
	}, first.ReportMetric)

	// chapter index 3 (chap4), month 5 of the previous year
	var chap4 models.ChapterReport
	for _, r := range snap.ChapterReports {
		if r.ID == "chap4-2024-5" {
			chap4 = r
		}
	}
	assert.Equal(t, models.ReportMetric{
		Membership:         75,
		Attendance:         67,
		FirstTimers:        11,
		Salvations:         7,
		HolyGhostBaptism:   3,
		MembershipDecision: 6,
		Offering:           55500,
	}, chap4.ReportMetric)
}

func TestOpenSeedsOverUnparseableState(t *testing.T) {
	p := &memPersister{loadErr: fmt.Errorf("decode: %w", models.ErrUnparseableState)}
	s := openTestStore(t, p)
	assert.Len(t, s.Users(), 13)
	assert.Equal(t, 1, p.saves)
	assert.Equal(t, uint64(1), s.Version())
}

func TestOpenReadFailureNeverOverwritesStoredState(t *testing.T) {
	stored := &models.Snapshot{
		Districts: []models.District{{ID: "dist1", Name: "South West 7"}},
	}
	p := &memPersister{stored: stored, loadErr: errors.New("dial tcp: connection refused")}
	s := openTestStore(t, p)

	// seed data in memory
	assert.Len(t, s.Users(), 13)
	assert.Equal(t, 0, p.saves)
	assert.Equal(t, uint64(0), s.Version())

	// later mutations stay in memory too
	p.loadErr = nil
	_, err := s.AddDistrict(context.Background(), models.District{Name: "North"})
	require.NoError(t, err)
	assert.Len(t, s.Districts(), 2)
	assert.Equal(t, 0, p.saves)
	assert.Same(t, stored, p.stored)
	assert.Equal(t, []models.District{{ID: "dist1", Name: "South West 7"}}, p.stored.Districts)
}

func TestOpenFillsMissingCollectionsFromSeed(t *testing.T) {
	p := &memPersister{stored: &models.Snapshot{
		Districts:    []models.District{{ID: "d9", Name: "Only District"}},
		EventReports: []models.EventReport{},
	}}
	s := openTestStore(t, p)

	snap := s.Snapshot()
	require.Len(t, snap.Districts, 1)
	assert.Equal(t, "d9", snap.Districts[0].ID)
	assert.Len(t, snap.Zones, 2)
	assert.Len(t, snap.ChapterReports, 75)
	assert.Empty(t, snap.EventReports)
}

func TestSaveFailureKeepsInMemoryState(t *testing.T) {
	p := &memPersister{}
	s := openTestStore(t, p)
	p.saveErr = errors.New("disk full")

	_, err := s.AddDistrict(context.Background(), models.District{Name: "North"})
	require.NoError(t, err)
	assert.Len(t, s.Districts(), 2)
	assert.Equal(t, uint64(1), s.Version())
}

func TestSubmitChapterReportUpserts(t *testing.T) {
	s := openTestStore(t, &memPersister{})
	ctx := context.Background()
	before := len(s.Snapshot().ChapterReports)

	r := models.ChapterReport{ChapterID: "chap2", Month: 6, Year: 2025, ReportMetric: models.ReportMetric{Attendance: 10}}
	stored, err := s.SubmitChapterReport(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "chap2-2025-6", stored.ID)
	assert.Equal(t, "Victoria Island Chapter", stored.ChapterName)

	r.Attendance = 25
	_, err = s.SubmitChapterReport(ctx, r)
	require.NoError(t, err)

	reports := s.ChapterReports("chap2", nil)
	assert.Len(t, s.Snapshot().ChapterReports, before+1)
	assert.Equal(t, "chap2-2025-6", reports[0].ID)
	assert.Equal(t, 25.0, reports[0].Attendance)
}

func TestSubmitChapterReportsRejectsWholeBatch(t *testing.T) {
	s := openTestStore(t, &memPersister{})
	before := s.Snapshot().ChapterReports

	_, err := s.SubmitChapterReports(context.Background(), []models.ChapterReport{
		{ChapterID: "chap1", Month: 6, Year: 2025},
		{ChapterID: "chap1", Month: 7, Year: 2025, ReportMetric: models.ReportMetric{Offering: -5}},
	})
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Equal(t, before, s.Snapshot().ChapterReports)

	_, err = s.SubmitChapterReport(context.Background(), models.ChapterReport{ChapterID: "nope", Month: 1, Year: 2025})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestChapterReportsFilterAndOrder(t *testing.T) {
	s := openTestStore(t, &memPersister{})
	rng, err := models.ParseDateRange("2024-11-01", "2025-01-15")
	require.NoError(t, err)

	reports := s.ChapterReports("chap1", rng)
	require.Len(t, reports, 3)
	assert.Equal(t, "chap1-2025-1", reports[0].ID)
	assert.Equal(t, "chap1-2024-12", reports[1].ID)
	assert.Equal(t, "chap1-2024-11", reports[2].ID)

	latest, ok := s.LatestChapterReport("chap1")
	require.True(t, ok)
	assert.Equal(t, "chap1-2025-3", latest.ID)
}

func TestSubmitEventReport(t *testing.T) {
	s := openTestStore(t, &memPersister{})
	ctx := context.Background()

	e, err := s.SubmitEventReport(ctx, models.EventReport{
		ReportingOfficerID: "fr1",
		EventName:          "Lekki outreach",
		EventDate:          "2025-02-14",
		EventType:          models.EventOutreach,
		ReportMetric:       models.ReportMetric{Attendance: 120, Salvations: 12},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, models.RoleFieldRepresentative, e.OfficerRole)
	assert.Len(t, s.EventReportsByOfficer("fr1", nil), 1)

	_, err = s.SubmitEventReport(ctx, models.EventReport{
		ReportingOfficerID: "cp1",
		EventName:          "Chapter meeting",
		EventDate:          "2025-02-14",
		EventType:          models.EventMeeting,
	})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = s.SubmitEventReport(ctx, models.EventReport{ReportingOfficerID: "ghost"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestEventReportsRangeExcludesUnparseableDates(t *testing.T) {
	s := New(Options{Logger: logger.Discard()}, models.Snapshot{
		EventReports: []models.EventReport{
			{ID: "e1", ReportingOfficerID: "nd1", EventDate: "2025-01-20"},
			{ID: "e2", ReportingOfficerID: "nd1", EventDate: "sometime"},
			{ID: "e3", ReportingOfficerID: "nd1", EventDate: "2024-06-01"},
			{ID: "e4", ReportingOfficerID: "nd1", EventDate: "2025-01-31T23:59:59.5Z"},
			{ID: "e5", ReportingOfficerID: "nd1", EventDate: "2025-02-01T00:00:00Z"},
		},
	})
	rng, err := models.ParseDateRange("2025-01-01", "2025-01-31")
	require.NoError(t, err)

	events := s.EventReportsByOfficer("nd1", rng)
	require.Len(t, events, 2)
	ids := []string{events[0].ID, events[1].ID}
	assert.ElementsMatch(t, []string{"e1", "e4"}, ids)
	assert.Len(t, s.EventReportsByOfficer("nd1", nil), 5)

	sameDay, err := models.ParseDateRange("2025-01-31", "2025-01-31")
	require.NoError(t, err)
	events = s.EventReportsByOfficer("nd1", sameDay)
	require.Len(t, events, 1)
	assert.Equal(t, "e4", events[0].ID)
}

func TestHierarchyReferences(t *testing.T) {
	s := openTestStore(t, &memPersister{})
	ctx := context.Background()

	_, err := s.AddZone(ctx, models.Zone{Name: "Lost", DistrictID: "missing"})
	assert.ErrorIs(t, err, types.ErrValidation)

	z, err := s.AddZone(ctx, models.Zone{Name: "Coastal Zone", DistrictID: "dist1"})
	require.NoError(t, err)
	assert.NotEmpty(t, z.ID)

	_, err = s.AddZone(ctx, models.Zone{ID: z.ID, Name: "Again", DistrictID: "dist1"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = s.UpdateArea(ctx, models.Area{ID: "area404", Name: "x", ZoneID: "zone1"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	// deleting a unit leaves its children and reports dangling
	require.NoError(t, s.DeleteArea(ctx, "area1"))
	assert.Len(t, s.Areas(), 2)
	assert.Len(t, s.Chapters(), 5)
	assert.NotEmpty(t, s.ChapterReports("chap1", nil))

	assert.ErrorIs(t, s.DeleteArea(ctx, "area1"), types.ErrNotFound)
}

func TestUserRules(t *testing.T) {
	s := openTestStore(t, &memPersister{})
	ctx := context.Background()

	_, err := s.AddUser(ctx, models.User{Name: "FR Two", Role: models.RoleFieldRepresentative, UnitID: "area1", Username: "frtwo", Password: "pw"})
	assert.ErrorIs(t, err, types.ErrValidation, "second FR for area1")

	_, err = s.AddUser(ctx, models.User{Name: "Dup", Role: models.RoleChapterPresident, UnitID: "chap1", Username: "CPTITI", Password: "pw"})
	assert.ErrorIs(t, err, types.ErrValidation, "username taken")

	_, err = s.AddUser(ctx, models.User{Name: "No Pw", Role: models.RoleChapterPresident, UnitID: "chap1", Username: "nopw"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = s.AddUser(ctx, models.User{Name: "Boss", Role: models.RoleAdmin, UnitID: "dist1", Username: "boss", Password: "pw"})
	assert.ErrorIs(t, err, types.ErrValidation)

	u, err := s.AddUser(ctx, models.User{Name: "CP Two", Role: models.RoleChapterPresident, UnitID: "chap1", Username: "cptwo", Password: "pw"})
	require.NoError(t, err)

	u.Name = "CP Two Renamed"
	u.Password = ""
	updated, err := s.UpdateUser(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "pw", updated.Password)

	// an officer may be updated in place without tripping uniqueness
	fr1, ok := s.User("fr1")
	require.True(t, ok)
	fr1.Phone = "0800"
	_, err = s.UpdateUser(ctx, fr1)
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	s := openTestStore(t, &memPersister{})

	u, err := s.Authenticate("  CPTiti ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "cp1", u.ID)

	_, err = s.Authenticate("cptiti", "Password123")
	assert.ErrorIs(t, err, types.ErrAuth)
	_, err2 := s.Authenticate("nobody", "password123")
	assert.Equal(t, err.Error(), err2.Error())
}

func TestChangePassword(t *testing.T) {
	s := openTestStore(t, &memPersister{})
	ctx := context.Background()

	assert.ErrorIs(t, s.ChangePassword(ctx, "cp1", "wrong", "next"), types.ErrAuth)
	require.NoError(t, s.ChangePassword(ctx, "cp1", "password123", "next"))

	_, err := s.Authenticate("cptiti", "next")
	assert.NoError(t, err)
}

func TestManagementScope(t *testing.T) {
	s := openTestStore(t, &memPersister{})
	ctx := context.Background()
	_, err := s.AddDistrict(ctx, models.District{ID: "dist2", Name: "North 1"})
	require.NoError(t, err)
	_, err = s.AddZone(ctx, models.Zone{ID: "zone9", Name: "Far Zone", DistrictID: "dist2"})
	require.NoError(t, err)

	da, _ := s.User("da1")
	scope := s.ManagementScope(da)
	assert.False(t, scope.All())
	assert.True(t, scope.District(models.District{ID: "dist1"}))
	assert.False(t, scope.District(models.District{ID: "dist2"}))
	assert.True(t, scope.Zone(models.Zone{DistrictID: "dist1"}))
	assert.False(t, scope.Zone(models.Zone{DistrictID: "dist2"}))
	assert.True(t, scope.Chapter(models.Chapter{AreaID: "area3"}))

	users := Filter(s.Users(), scope.User)
	assert.Len(t, users, 12, "everyone but the Admin")

	admin, _ := s.User("admin")
	assert.True(t, s.ManagementScope(admin).All())

	cp, _ := s.User("cp1")
	assert.Empty(t, Filter(s.Districts(), s.ManagementScope(cp).District))
}

func TestCanViewChapter(t *testing.T) {
	s := openTestStore(t, &memPersister{})
	user := func(id string) models.User {
		u, ok := s.User(id)
		require.True(t, ok, id)
		return u
	}

	assert.True(t, s.CanViewChapter(user("cp1"), "chap1"))
	assert.False(t, s.CanViewChapter(user("cp1"), "chap2"))
	assert.True(t, s.CanViewChapter(user("fr1"), "chap2"))
	assert.False(t, s.CanViewChapter(user("fr1"), "chap3"))
	assert.True(t, s.CanViewChapter(user("nd2"), "chap5"))
	assert.False(t, s.CanViewChapter(user("nd2"), "chap1"))
	assert.True(t, s.CanViewChapter(user("dc1"), "chap4"))
	assert.True(t, s.CanViewChapter(user("da1"), "chap4"))
	assert.True(t, s.CanViewChapter(user("admin"), "chap3"))
	assert.False(t, s.CanViewChapter(user("dc1"), "missing"))
}

func TestArchiveThrough(t *testing.T) {
	s := openTestStore(t, &memPersister{})
	ctx := context.Background()
	for _, date := range []string{"2024-07-01", "2025-02-01", "not a date"} {
		_, err := s.SubmitEventReport(ctx, models.EventReport{
			ReportingOfficerID: "nd1",
			EventName:          "Zonal meeting",
			EventDate:          "2025-01-01",
			EventType:          models.EventMeeting,
		})
		require.NoError(t, err)
		// rewrite the stored date to cover legacy values
		s.mu.Lock()
		s.eventReports[len(s.eventReports)-1].EventDate = date
		s.mu.Unlock()
	}

	failing := func(models.ArchivePayload) ([]byte, error) { return nil, errors.New("boom") }
	_, err := s.ArchiveThrough(ctx, 2024, testNow, failing)
	assert.ErrorIs(t, err, types.ErrPersistence)
	assert.Len(t, s.Snapshot().ChapterReports, 75)

	encoded := func(p models.ArchivePayload) ([]byte, error) { return []byte("ok"), nil }
	res, err := s.ArchiveThrough(ctx, 2024, testNow, encoded)
	require.NoError(t, err)
	assert.Len(t, res.Payload.ChapterReports, 60)
	require.Len(t, res.Payload.EventReports, 1)
	assert.Equal(t, "2024-07-01", res.Payload.EventReports[0].EventDate)
	assert.Equal(t, 2024, res.Payload.ArchivedUpToYear)
	assert.Equal(t, 15+2, res.Retained)

	snap := s.Snapshot()
	assert.Len(t, snap.ChapterReports, 15)
	assert.Len(t, snap.EventReports, 2)
	for _, r := range snap.ChapterReports {
		assert.Equal(t, 2025, r.Year)
	}

	// archiving again finds nothing new
	res, err = s.ArchiveThrough(ctx, 2024, testNow, encoded)
	require.NoError(t, err)
	assert.Empty(t, res.Payload.ChapterReports)
}
