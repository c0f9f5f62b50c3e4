package models

import "encoding/json"

// Level is the hierarchy tier an aggregate node represents.
type Level string

const (
	LevelGlobal   Level = "global"
	LevelDistrict Level = "district"
	LevelZone     Level = "zone"
	LevelArea     Level = "area"
	LevelChapter  Level = "chapter"
)

// AggregatedData is a computed roll-up node. It mirrors the hierarchy scoped
// to a query and is never persisted.
type AggregatedData struct {
	Name  string `json:"name"`
	Level Level  `json:"level"`
	ReportMetric
	Reports  []Reportable      `json:"reports"`
	Children []*AggregatedData `json:"children"`
	Events   []EventReport     `json:"events"`
}

// MarshalJSON omits children and events on chapter nodes and always emits
// them, possibly empty, everywhere else.
func (a *AggregatedData) MarshalJSON() ([]byte, error) {
	type node AggregatedData
	reports := a.Reports
	if reports == nil {
		reports = []Reportable{}
	}
	if a.Level == LevelChapter {
		return json.Marshal(struct {
			Name  string `json:"name"`
			Level Level  `json:"level"`
			ReportMetric
			Reports []Reportable `json:"reports"`
		}{a.Name, a.Level, a.ReportMetric, reports})
	}
	n := node(*a)
	n.Reports = reports
	if n.Children == nil {
		n.Children = []*AggregatedData{}
	}
	if n.Events == nil {
		n.Events = []EventReport{}
	}
	return json.Marshal(n)
}

// Totals returns the node's metrics with the breakdown stripped, the shape
// handed to the narrative collaborator.
func (a *AggregatedData) Totals() ReportMetric {
	return a.ReportMetric
}
