package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/localnerve/lofreports/data"
	"github.com/localnerve/lofreports/internal/models"
)

// Seed builds the demo state: the embedded organization plus generated
// monthly reports for every chapter over the previous year and the current
// year through now's month.
func Seed(now time.Time) (models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal(data.SeedOrganization, &snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to parse seed organization: %w", err)
	}
	snapshot.ChapterReports = GenerateReports(snapshot.Chapters, now)
	snapshot.EventReports = []models.EventReport{}
	return snapshot, nil
}

// GenerateReports produces deterministic demo reports. Values grow with the
// chapter's position and the month so trends and comparisons have shape.
func GenerateReports(chapters []models.Chapter, now time.Time) []models.ChapterReport {
	current := now.Year()
	var reports []models.ChapterReport
	for _, year := range []int{current - 1, current} {
		for idx, chapter := range chapters {
			for month := 1; month <= 12; month++ {
				if year == current && month > int(now.Month()) {
					break
				}
				reports = append(reports, demoReport(chapter, idx, year, month))
			}
		}
	}
	return reports
}

func demoReport(chapter models.Chapter, idx, year, month int) models.ChapterReport {
	prior := 1
	if month > 1 {
		prior = month - 1
	}
	key := models.ReportKey{ChapterID: chapter.ID, Year: year, Month: month}
	return models.ChapterReport{
		ID:          key.ID(),
		ChapterID:   chapter.ID,
		ChapterName: chapter.Name,
		Month:       month,
		Year:        year,
		ReportMetric: models.ReportMetric{
			Membership:         float64(50 + idx*5 + month*2),
			Attendance:         float64(40 + idx*4 + month*3),
			FirstTimers:        float64(5 + idx/2 + month),
			Salvations:         float64(3 + idx%3 + prior),
			HolyGhostBaptism:   float64(2 + idx%2),
			MembershipDecision: float64(2 + prior),
			Offering:           float64(50000 + idx*1000 + month*500),
		},
	}
}
