package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/localnerve/lofreports/internal/models"
)

// Fields are numeric or come from the fixed label set, so rows are joined
// without quoting.
const csvSeparator = ","

// ChapterReportsCSV renders one row per report under a Month,Year,<labels>
// header.
func ChapterReportsCSV(reports []models.ChapterReport) []byte {
	var b strings.Builder
	header := []string{"Month", "Year"}
	for _, f := range models.MetricFields {
		header = append(header, f.Label())
	}
	b.WriteString(strings.Join(header, csvSeparator))

	for _, r := range reports {
		row := []string{monthName(r.Month), strconv.Itoa(r.Year)}
		for _, f := range models.MetricFields {
			row = append(row, formatNumber(r.Value(f)))
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(row, csvSeparator))
	}
	return []byte(b.String())
}

// AggregateCSV renders one Metric,Total row per field of the aggregate.
func AggregateCSV(data *models.AggregatedData) []byte {
	var b strings.Builder
	b.WriteString("Metric" + csvSeparator + "Total")
	for _, f := range models.MetricFields {
		b.WriteString("\n")
		b.WriteString(f.Label() + csvSeparator + formatNumber(data.Value(f)))
	}
	return []byte(b.String())
}

// ChapterReportFilename names a chapter export.
func ChapterReportFilename(chapterName string, rng *models.DateRange) string {
	return fmt.Sprintf("Chapter_Report_%s_%s.csv", underscored(chapterName), rangeSuffix(rng))
}

// AggregateReportFilename names an aggregate export for the requesting user.
func AggregateReportFilename(user models.User, rng *models.DateRange) string {
	var prefix string
	switch user.Role {
	case models.RoleAdmin:
		prefix = "Admin_Report"
	case models.RoleDistrictCoordinator, models.RoleDistrictAdmin:
		prefix = "DC_Report_" + underscored(user.Name)
	case models.RoleNationalDirector:
		prefix = "ND_Report_" + underscored(user.Name)
	default:
		prefix = "FR_Report_" + underscored(user.Name)
	}
	return fmt.Sprintf("%s_%s.csv", prefix, rangeSuffix(rng))
}

// ArchiveFilename names a year-end archive download.
func ArchiveFilename(year int) string {
	return fmt.Sprintf("fgbmfi_lof_archive_up_to_%d.json", year)
}

func rangeSuffix(rng *models.DateRange) string {
	if rng == nil {
		return "all_time"
	}
	return rng.StartString() + "_to_" + rng.EndString()
}

func underscored(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

func monthName(month int) string {
	if month < 1 || month > 12 {
		return strconv.Itoa(month)
	}
	return time.Month(month).String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
