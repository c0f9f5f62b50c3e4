package services

import (
	"fmt"
	"time"

	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/store"
)

// SummaryCard is one metric tile of the dashboard.
type SummaryCard struct {
	Field      models.MetricField `json:"field"`
	Title      string             `json:"title"`
	Value      float64            `json:"value"`
	IsCurrency bool               `json:"isCurrency"`
}

// Dashboard is the landing summary for a user.
type Dashboard struct {
	Title   string        `json:"title"`
	HasData bool          `json:"hasData"`
	Message string        `json:"message,omitempty"`
	Period  *Period       `json:"period,omitempty"`
	Cards   []SummaryCard `json:"cards"`
}

// DashboardService builds dashboard summaries.
type DashboardService struct {
	store      *store.Store
	aggregator *Aggregator
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(st *store.Store, aggregator *Aggregator) *DashboardService {
	return &DashboardService{store: st, aggregator: aggregator}
}

var summaryTitles = map[models.Role]string{
	models.RoleFieldRepresentative: "Area Summary",
	models.RoleNationalDirector:    "Zonal Summary",
	models.RoleDistrictCoordinator: "District Summary",
	models.RoleDistrictAdmin:       "District Summary",
	models.RoleAdmin:               "Overall Summary",
}

// ForUser shows a Chapter President their chapter's latest report and every
// other role a year-to-date aggregate of their unit.
func (d *DashboardService) ForUser(user models.User) Dashboard {
	if user.Role == models.RoleChapterPresident {
		return d.chapterSummary(user)
	}
	return d.yearToDate(user, d.store.Now())
}

func (d *DashboardService) chapterSummary(user models.User) Dashboard {
	latest, ok := d.store.LatestChapterReport(user.UnitID)
	if !ok {
		return Dashboard{
			Title:   "Latest Report Summary",
			Message: "No summary available. Submit your first monthly report to see a summary here.",
			Cards:   []SummaryCard{},
		}
	}
	return Dashboard{
		Title:   fmt.Sprintf("Latest Report Summary (%s %d)", monthName(latest.Month), latest.Year),
		HasData: true,
		Cards:   cards(latest.ReportMetric),
	}
}

func (d *DashboardService) yearToDate(user models.User, now time.Time) Dashboard {
	rng := models.NewDateRange(time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), now)
	period := &Period{Start: rng.StartString(), End: rng.EndString()}

	data := d.aggregator.Aggregate(user.Role, user.UnitID, &rng)
	if data == nil || data.Attendance == 0 {
		return Dashboard{
			Title:   summaryTitles[user.Role],
			Message: "No data available for the current year to generate a summary.",
			Period:  period,
			Cards:   []SummaryCard{},
		}
	}
	return Dashboard{
		Title:   fmt.Sprintf("%s: %s (Year-to-Date)", summaryTitles[user.Role], data.Name),
		HasData: true,
		Period:  period,
		Cards:   cards(data.ReportMetric),
	}
}

func cards(m models.ReportMetric) []SummaryCard {
	out := make([]SummaryCard, 0, len(models.MetricFields))
	for _, f := range models.MetricFields {
		out = append(out, SummaryCard{
			Field:      f,
			Title:      f.Label(),
			Value:      m.Value(f),
			IsCurrency: f == models.FieldOffering,
		})
	}
	return out
}
