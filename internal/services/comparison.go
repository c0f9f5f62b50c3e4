// comparison.go
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

package services

import (
	"github.com/localnerve/lofreports/internal/models"
	"github.com/shopspring/decimal"
)

// Direction is the sign of a period-over-period change.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Markers for changes that have no percentage.
const (
	InfiniteIncrease = "∞"
	NoChange         = "-"
)

var hundred = decimal.NewFromInt(100)

// Change is one metric's movement between two periods.
type Change struct {
	Field     models.MetricField `json:"field"`
	Label     string             `json:"label"`
	Current   float64            `json:"current"`
	Previous  float64            `json:"previous"`
	Display   string             `json:"display"`
	Direction Direction          `json:"direction"`
}

// Period is a date range in wire form.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Comparison holds the current and immediately preceding aggregates.
type Comparison struct {
	Current        *models.AggregatedData `json:"current"`
	Previous       *models.AggregatedData `json:"previous"`
	Period         Period                 `json:"period"`
	PreviousPeriod Period                 `json:"previousPeriod"`
	Changes        []Change               `json:"changes"`
}

// PreviousPeriod returns the range of equal length that ends the day
// before rng starts.
func PreviousPeriod(rng models.DateRange) models.DateRange {
	duration := rng.End.Sub(rng.Start)
	prevEnd := rng.Start.AddDate(0, 0, -1)
	return models.DateRange{Start: prevEnd.Add(-duration), End: prevEnd}
}

// PercentChange formats the change from previous to current with one
// decimal place and an explicit sign. A zero baseline yields the infinite
// marker when current grew, and the no-change marker when both are zero.
func PercentChange(current, previous float64) (string, Direction) {
	if previous == 0 {
		switch {
		case current > 0:
			return InfiniteIncrease, DirectionUp
		case current == 0:
			return NoChange, DirectionFlat
		}
		return NoChange, DirectionDown
	}

	cur := decimal.NewFromFloat(current)
	prev := decimal.NewFromFloat(previous)
	pct := cur.Sub(prev).Div(prev).Mul(hundred).Round(1)

	switch pct.Sign() {
	case 1:
		return "+" + pct.StringFixed(1) + "%", DirectionUp
	case -1:
		return pct.StringFixed(1) + "%", DirectionDown
	}
	return "0.0%", DirectionFlat
}

// Changes compares every metric field of two totals in display order.
func Changes(current, previous models.ReportMetric) []Change {
	changes := make([]Change, 0, len(models.MetricFields))
	for _, f := range models.MetricFields {
		c, p := current.Value(f), previous.Value(f)
		display, dir := PercentChange(c, p)
		changes = append(changes, Change{
			Field:     f,
			Label:     f.Label(),
			Current:   c,
			Previous:  p,
			Display:   display,
			Direction: dir,
		})
	}
	return changes
}

// Compare aggregates rng and the period preceding it. It returns nil when
// the role and unit do not aggregate.
func (a *Aggregator) Compare(role models.Role, unitID string, rng models.DateRange) *Comparison {
	current := a.Aggregate(role, unitID, &rng)
	if current == nil {
		return nil
	}
	prevRange := PreviousPeriod(rng)
	previous := a.Aggregate(role, unitID, &prevRange)
	if previous == nil {
		previous = &models.AggregatedData{Name: current.Name, Level: current.Level}
	}
	return &Comparison{
		Current:        current,
		Previous:       previous,
		Period:         Period{Start: rng.StartString(), End: rng.EndString()},
		PreviousPeriod: Period{Start: prevRange.StartString(), End: prevRange.EndString()},
		Changes:        Changes(current.ReportMetric, previous.ReportMetric),
	}
}
