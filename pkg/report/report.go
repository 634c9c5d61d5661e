// Package report turns simulated buckets into the summaries shown to users.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pvyield/pvyield/pkg/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	kwhPerMWh = 1e3
	kwhPerGWh = 1e6
)

// ScaleUnit picks the unit for values whose largest magnitude is maxKWH and
// returns the divisor to convert from KWh.
func ScaleUnit(maxKWH float64) (types.EnergyUnit, float64) {
	switch {
	case maxKWH >= kwhPerGWh:
		return types.UnitGWh, kwhPerGWh
	case maxKWH >= kwhPerMWh:
		return types.UnitMWh, kwhPerMWh
	default:
		return types.UnitKWh, 1
	}
}

// Summarize groups simulated buckets by year (totals) or by calendar month
// (average across years) for presentation. Buckets may be daily or monthly.
func Summarize(buckets []types.Bucket, kind types.SummaryKind, panelAreaM2 int, location string) (types.Summary, error) {
	if kind != types.SummaryYears && kind != types.SummaryMonths {
		return types.Summary{}, fmt.Errorf("%w: summary kind must be %s or %s, got %q", types.ErrInvalidArgument, types.SummaryMonths, types.SummaryYears, kind)
	}
	if panelAreaM2 < 0 {
		return types.Summary{}, fmt.Errorf("%w: panel area must not be negative, got %d", types.ErrInvalidArgument, panelAreaM2)
	}

	var points []types.SummaryPoint
	var err error
	switch kind {
	case types.SummaryYears:
		points, err = yearlyTotals(buckets)
	case types.SummaryMonths:
		points, err = monthlyAverages(buckets)
	}
	if err != nil {
		return types.Summary{}, err
	}

	s := types.Summary{
		Kind:        kind,
		Location:    location,
		PanelAreaM2: panelAreaM2,
		Unit:        types.UnitKWh,
		Points:      points,
	}
	if len(points) == 0 {
		return s, nil
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	unit, div := ScaleUnit(floats.Max(values))
	if div != 1 {
		floats.Scale(1/div, values)
		for i := range s.Points {
			s.Points[i].Value = values[i]
		}
	}
	s.Unit = unit
	s.Max = floats.Max(values)
	s.Min = floats.Min(values)
	s.Mean = stat.Mean(values, nil)
	return s, nil
}

func bucketYield(b types.Bucket) (float64, error) {
	y, ok := b.Yield()
	if !ok {
		return 0, fmt.Errorf("%w: bucket %s has no energy yield", types.ErrTypeMismatch, b.Key)
	}
	return y, nil
}

func yearlyTotals(buckets []types.Bucket) ([]types.SummaryPoint, error) {
	totals := make(map[int]float64)
	for _, b := range buckets {
		y, err := bucketYield(b)
		if err != nil {
			return nil, err
		}
		totals[b.Key.Year] += y
	}

	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)

	points := make([]types.SummaryPoint, 0, len(years))
	for _, year := range years {
		points = append(points, types.SummaryPoint{
			Label: strconv.Itoa(year),
			Value: totals[year],
		})
	}
	return points, nil
}

func monthlyAverages(buckets []types.Bucket) ([]types.SummaryPoint, error) {
	type yearMonth struct {
		year  int
		month time.Month
	}
	// daily buckets are summed into months before averaging across years
	perMonth := make(map[yearMonth]float64)
	for _, b := range buckets {
		y, err := bucketYield(b)
		if err != nil {
			return nil, err
		}
		perMonth[yearMonth{b.Key.Year, b.Key.Month}] += y
	}

	byMonth := make(map[time.Month][]float64)
	for ym, y := range perMonth {
		byMonth[ym.month] = append(byMonth[ym.month], y)
	}

	var points []types.SummaryPoint
	for m := time.January; m <= time.December; m++ {
		values, ok := byMonth[m]
		if !ok {
			continue
		}
		points = append(points, types.SummaryPoint{
			Label: m.String(),
			Value: stat.Mean(values, nil),
		})
	}
	return points, nil
}

// Text renders the summary box shown next to a chart.
func Text(s types.Summary) string {
	noun := "Year"
	if s.Kind == types.SummaryMonths {
		noun = "Month"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Location: %s\n", s.Location)
	fmt.Fprintf(&sb, "Size of Panel Area: %d m²\n", s.PanelAreaM2)
	fmt.Fprintf(&sb, "Highest %s: %.2f %s\n", noun, s.Max, s.Unit)
	fmt.Fprintf(&sb, "Lowest %s: %.2f %s\n", noun, s.Min, s.Unit)
	fmt.Fprintf(&sb, "Avg: %.2f %s\n", s.Mean, s.Unit)
	return sb.String()
}

// Title returns the chart title for the summary.
func Title(s types.Summary) string {
	if s.Kind == types.SummaryMonths {
		return "Average Solar Energy Production Yield by Month"
	}
	return "Total Solar Energy Production Yield by Year"
}
