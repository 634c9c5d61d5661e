package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	log.SetDefaultLogLevel(slog.LevelError)
}

type fakeRunner struct {
	got types.EstimateRequest
	err error
}

func (f *fakeRunner) Estimate(ctx context.Context, req types.EstimateRequest) (types.Estimate, error) {
	f.got = req
	if f.err != nil {
		return types.Estimate{}, f.err
	}
	y := 1234.5
	temp := 15.0
	return types.Estimate{
		ID:      "id",
		Request: req,
		Buckets: []types.Bucket{
			{Key: types.BucketKey{Year: 2022, Month: time.July}, TotalSunHours: 300, TotalGTIWh: 200000, AvgDaytimeTempC: &temp, AvgHourlyGTI: 666, EnergyYieldKWH: &y},
		},
		Yearly: types.Summary{
			Kind:        types.SummaryYears,
			Location:    "Oslo, Norway",
			PanelAreaM2: req.PanelAreaM2,
			Unit:        types.UnitMWh,
			Points:      []types.SummaryPoint{{Label: "2022", Value: 1.2345}},
			Max:         1.2345,
			Min:         1.2345,
			Mean:        1.2345,
		},
		Monthly: types.Summary{
			Kind:        types.SummaryMonths,
			Location:    "Oslo, Norway",
			PanelAreaM2: req.PanelAreaM2,
			Unit:        types.UnitMWh,
			Points:      []types.SummaryPoint{{Label: "July", Value: 1.2345}},
			Max:         1.2345,
			Min:         1.2345,
			Mean:        1.2345,
		},
	}, nil
}

func TestReadRequest(t *testing.T) {
	input := strings.Join([]string{
		"95",      // invalid latitude
		"59.9127", // valid
		"10.7461", // valid longitude
		"eleven",  // invalid years
		"3",       // valid
		"-4",      // invalid area
		"25",      // valid
		"20 %",    // efficiency
		"-0.35%",  // coefficient
	}, "\n")
	var out bytes.Buffer
	req, err := newPrompter(strings.NewReader(input), &out).readRequest(types.GranularityMonthly)
	require.NoError(t, err)

	assert.Equal(t, types.EstimateRequest{
		Latitude:        59.9127,
		Longitude:       10.7461,
		Years:           3,
		PanelAreaM2:     25,
		STCEfficiency:   20,
		TempCoefficient: -0.35,
		Granularity:     types.GranularityMonthly,
	}, req)
	assert.Contains(t, out.String(), "Invalid latitude or format. Use decimal degrees.")
	assert.Contains(t, out.String(), "Year must be an integer value between 2 and 10.")
	assert.Contains(t, out.String(), "Panel area must be a positive integer.")
}

func TestReadRequestAttempts(t *testing.T) {
	t.Run("TooManyAttempts", func(t *testing.T) {
		var out bytes.Buffer
		_, err := newPrompter(strings.NewReader("91\n-91\nabc\n0\n"), &out).readRequest(types.GranularityMonthly)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "failed to provide valid latitude after 3 attempts")
		assert.Equal(t, 3, strings.Count(out.String(), "Latitude: "))
	})

	t.Run("EndOfInput", func(t *testing.T) {
		var out bytes.Buffer
		_, err := newPrompter(strings.NewReader("10\n"), &out).readRequest(types.GranularityMonthly)
		assert.ErrorIs(t, err, errNoInput)
	})

	t.Run("EfficiencyOutOfRange", func(t *testing.T) {
		var out bytes.Buffer
		_, err := newPrompter(strings.NewReader("10\n10\n2\n10\n30\n10\n35\n"), &out).readRequest(types.GranularityMonthly)
		assert.ErrorContains(t, err, "module efficiency")
	})
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		workbookPath: filepath.Join(dir, "out.xlsx"),
		csvPath:      filepath.Join(dir, "out.csv"),
		granularity:  types.GranularityDaily,
	}
	input := "59.9127\n10.7461\n2\n10\n20\n-0.4\n"
	runner := &fakeRunner{}
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), runner, strings.NewReader(input), &out, opts))
	assert.Equal(t, types.GranularityDaily, runner.got.Granularity)
	assert.Equal(t, 10, runner.got.PanelAreaM2)

	assert.Contains(t, out.String(), "Total Solar Energy Production Yield by Year")
	assert.Contains(t, out.String(), "Location: Oslo, Norway")
	assert.Contains(t, out.String(), "Highest Month: 1.23 MWh")

	f, err := excelize.OpenFile(opts.workbookPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Buckets", "Years", "Months"}, f.GetSheetList())

	csv, err := os.ReadFile(opts.csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(csv), "2022-07,300,")
}

func TestRunError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	err := run(context.Background(), runner, strings.NewReader("59.9127\n10.7461\n2\n10\n20\n-0.4\n"), &bytes.Buffer{}, options{})
	assert.ErrorContains(t, err, "boom")
}
