package models

import (
	"errors"
	"time"
)

// ErrUnparseableState marks a stored state document that exists but cannot
// be decoded.
var ErrUnparseableState = errors.New("state document is not valid JSON")

// StateDocument is the single serialized state blob. One row per state key.
type StateDocument struct {
	DocumentID      uint64 `gorm:"primaryKey;autoIncrement"`
	StateKey        string `gorm:"uniqueIndex;size:255;not null"`
	DocumentVersion uint64 `gorm:"not null;default:0"`
	Payload         JSON
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReportArchive records a year-end archive payload so it can be downloaded
// again after the live reports were pruned.
type ReportArchive struct {
	ArchiveID          string    `gorm:"primaryKey;type:char(36)"`
	StateKey           string    `gorm:"size:255;not null;index:idx_report_archives_key_year"`
	ArchivedUpToYear   int       `gorm:"not null;index:idx_report_archives_key_year"`
	ChapterReportCount int       `gorm:"not null;default:0"`
	EventReportCount   int       `gorm:"not null;default:0"`
	ArchiveDate        time.Time `gorm:"not null"`
	Payload            JSON
	CreatedAt          time.Time
}

// TableName overrides the table name for StateDocument
func (StateDocument) TableName() string {
	return "state_documents"
}

// TableName overrides the table name for ReportArchive
func (ReportArchive) TableName() string {
	return "report_archives"
}
