package models

import (
	"fmt"
	"time"
)

// MetricField names one of the seven summable report fields.
type MetricField string

const (
	FieldMembership         MetricField = "membership"
	FieldAttendance         MetricField = "attendance"
	FieldFirstTimers        MetricField = "firstTimers"
	FieldSalvations         MetricField = "salvations"
	FieldHolyGhostBaptism   MetricField = "holyGhostBaptism"
	FieldMembershipDecision MetricField = "membershipDecision"
	FieldOffering           MetricField = "offering"
)

// MetricFields is the canonical field order used for display and export.
var MetricFields = []MetricField{
	FieldMembership,
	FieldAttendance,
	FieldFirstTimers,
	FieldSalvations,
	FieldHolyGhostBaptism,
	FieldMembershipDecision,
	FieldOffering,
}

var metricLabels = map[MetricField]string{
	FieldMembership:         "Membership",
	FieldAttendance:         "Attendance",
	FieldFirstTimers:        "First Timers",
	FieldSalvations:         "Salvations",
	FieldHolyGhostBaptism:   "Holy Ghost Baptism",
	FieldMembershipDecision: "Membership Decision",
	FieldOffering:           "Offering (₦)",
}

// Label returns the display label of the field.
func (f MetricField) Label() string {
	return metricLabels[f]
}

// ReportMetric holds the seven additive report values.
type ReportMetric struct {
	Membership         float64 `json:"membership" validate:"gte=0"`
	Attendance         float64 `json:"attendance" validate:"gte=0"`
	FirstTimers        float64 `json:"firstTimers" validate:"gte=0"`
	Salvations         float64 `json:"salvations" validate:"gte=0"`
	HolyGhostBaptism   float64 `json:"holyGhostBaptism" validate:"gte=0"`
	MembershipDecision float64 `json:"membershipDecision" validate:"gte=0"`
	Offering           float64 `json:"offering" validate:"gte=0"`
}

// Add returns the field-wise sum of m and o.
func (m ReportMetric) Add(o ReportMetric) ReportMetric {
	return ReportMetric{
		Membership:         m.Membership + o.Membership,
		Attendance:         m.Attendance + o.Attendance,
		FirstTimers:        m.FirstTimers + o.FirstTimers,
		Salvations:         m.Salvations + o.Salvations,
		HolyGhostBaptism:   m.HolyGhostBaptism + o.HolyGhostBaptism,
		MembershipDecision: m.MembershipDecision + o.MembershipDecision,
		Offering:           m.Offering + o.Offering,
	}
}

// Value returns the value of a single field.
func (m ReportMetric) Value(f MetricField) float64 {
	switch f {
	case FieldMembership:
		return m.Membership
	case FieldAttendance:
		return m.Attendance
	case FieldFirstTimers:
		return m.FirstTimers
	case FieldSalvations:
		return m.Salvations
	case FieldHolyGhostBaptism:
		return m.HolyGhostBaptism
	case FieldMembershipDecision:
		return m.MembershipDecision
	case FieldOffering:
		return m.Offering
	}
	return 0
}

// Metrics returns the metric values themselves.
func (m ReportMetric) Metrics() ReportMetric {
	return m
}

// Reportable is implemented by both report kinds so folds over mixed report
// lists need no type inspection.
type Reportable interface {
	Metrics() ReportMetric
	ReportID() string
}

// Sum folds the metrics of every report field-wise.
func Sum[R Reportable](reports []R) ReportMetric {
	var total ReportMetric
	for _, r := range reports {
		total = total.Add(r.Metrics())
	}
	return total
}

// ReportKey is the identity of a chapter report.
type ReportKey struct {
	ChapterID string
	Year      int
	Month     int
}

// ID returns the deterministic report id for the key.
func (k ReportKey) ID() string {
	return fmt.Sprintf("%s-%d-%d", k.ChapterID, k.Year, k.Month)
}

// ChapterReport is a chapter's monthly report.
type ChapterReport struct {
	ID          string `json:"id"`
	ChapterID   string `json:"chapterId" validate:"required"`
	ChapterName string `json:"chapterName"`
	Month       int    `json:"month" validate:"min=1,max=12"`
	Year        int    `json:"year" validate:"min=1900,max=9999"`
	ReportMetric
}

// ReportID implements Reportable.
func (r ChapterReport) ReportID() string {
	return r.ID
}

// Key returns the (chapter, year, month) identity of the report.
func (r ChapterReport) Key() ReportKey {
	return ReportKey{ChapterID: r.ChapterID, Year: r.Year, Month: r.Month}
}

// RepresentativeDate is the 15th of the report's month, used for range
// filtering because reports are monthly rather than daily.
func (r ChapterReport) RepresentativeDate() time.Time {
	return time.Date(r.Year, time.Month(r.Month), 15, 0, 0, 0, 0, time.UTC)
}

// EventType classifies an event report.
type EventType string

const (
	EventOutreach       EventType = "Outreach"
	EventMeeting        EventType = "Meeting"
	EventTraining       EventType = "Training"
	EventSpecialProgram EventType = "Special Program"
)

// EventReport is an ad-hoc report submitted by an officer at Area tier or above.
type EventReport struct {
	ID                 string    `json:"id"`
	ReportingOfficerID string    `json:"reportingOfficerId" validate:"required"`
	OfficerRole        Role      `json:"officerRole" validate:"required,role"`
	EventName          string    `json:"eventName" validate:"required"`
	EventDate          string    `json:"eventDate" validate:"required,eventdate"`
	EventType          EventType `json:"eventType" validate:"required,oneof=Outreach Meeting Training 'Special Program'"`
	ReportMetric
}

// ReportID implements Reportable.
func (e EventReport) ReportID() string {
	return e.ID
}

// Date parses the event date. ok is false when the stored value is not a
// date or timestamp.
func (e EventReport) Date() (time.Time, bool) {
	return ParseDate(e.EventDate)
}
