package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pvyield/pvyield/pkg/types"
	"github.com/xuri/excelize/v2"
)

var bucketHeader = []string{
	"Bucket",
	"Total Sun Hours",
	"Total GTI (Wh/m2)",
	"Average Daytime Temp",
	"Average hourly GTI (W/m2)",
	"Energy Yield (KWh)",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// WriteCSV writes one row per bucket. Missing values are left empty.
func WriteCSV(w io.Writer, buckets []types.Bucket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bucketHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, b := range buckets {
		row := []string{
			b.Key.String(),
			formatFloat(b.TotalSunHours),
			formatFloat(b.TotalGTIWh),
			formatOptional(b.AvgDaytimeTempC),
			formatFloat(b.AvgHourlyGTI),
			formatOptional(b.EnergyYieldKWH),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", b.Key, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

const bucketsSheet = "Buckets"

// Workbook builds a spreadsheet with the raw buckets and one sheet per summary,
// each with a column chart of the summary points.
func Workbook(buckets []types.Bucket, summaries ...types.Summary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", bucketsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeBucketsSheet(f, buckets); err != nil {
		f.Close()
		return nil, err
	}
	for _, s := range summaries {
		if err := writeSummarySheet(f, s); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteWorkbook writes the workbook built by Workbook to w.
func WriteWorkbook(w io.Writer, buckets []types.Bucket, summaries ...types.Summary) error {
	f, err := Workbook(buckets, summaries...)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeBucketsSheet(f *excelize.File, buckets []types.Bucket) error {
	header := make([]any, len(bucketHeader))
	for i, h := range bucketHeader {
		header[i] = h
	}
	if err := setRow(f, bucketsSheet, 1, header); err != nil {
		return err
	}
	for i, b := range buckets {
		values := []any{b.Key.String(), b.TotalSunHours, b.TotalGTIWh, nil, b.AvgHourlyGTI, nil}
		if b.AvgDaytimeTempC != nil {
			values[3] = *b.AvgDaytimeTempC
		}
		if b.EnergyYieldKWH != nil {
			values[5] = *b.EnergyYieldKWH
		}
		if err := setRow(f, bucketsSheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s types.Summary) error {
	sheet := string(s.Kind)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	valueHeader := fmt.Sprintf("Energy Yield (%s)", s.Unit)
	if err := setRow(f, sheet, 1, []any{string(s.Kind), valueHeader}); err != nil {
		return err
	}
	for i, p := range s.Points {
		if err := setRow(f, sheet, i+2, []any{p.Label, p.Value}); err != nil {
			return err
		}
	}
	// the summary box sits below the data
	footer := len(s.Points) + 3
	rows := [][]any{
		{"Location", s.Location},
		{"Size of Panel Area (m²)", s.PanelAreaM2},
		{"Highest (" + string(s.Unit) + ")", s.Max},
		{"Lowest (" + string(s.Unit) + ")", s.Min},
		{"Average (" + string(s.Unit) + ")", s.Mean},
	}
	for i, r := range rows {
		if err := setRow(f, sheet, footer+i, r); err != nil {
			return err
		}
	}

	if len(s.Points) == 0 {
		return nil
	}
	last := len(s.Points) + 1
	err := f.AddChart(sheet, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", sheet),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, last),
		}},
		Title:  []excelize.RichTextRun{{Text: Title(s)}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
	if err != nil {
		return fmt.Errorf("failed to add chart to %s: %w", sheet, err)
	}
	return nil
}
