package models

import "time"

// Snapshot is the persisted state document. Nil collections mean the
// collection was absent from the stored document.
type Snapshot struct {
	Users          []User          `json:"users"`
	Chapters       []Chapter       `json:"chapters"`
	Areas          []Area          `json:"areas"`
	Zones          []Zone          `json:"zones"`
	Districts      []District      `json:"districts"`
	ChapterReports []ChapterReport `json:"chapterReports"`
	EventReports   []EventReport   `json:"eventReports"`
}

// ArchivePayload is the year-end archive export format.
type ArchivePayload struct {
	ArchiveDate      time.Time       `json:"archiveDate"`
	ArchivedUpToYear int             `json:"archivedUpToYear"`
	ChapterReports   []ChapterReport `json:"chapterReports"`
	EventReports     []EventReport   `json:"eventReports"`
}
