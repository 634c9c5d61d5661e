package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/levenlabs/go-lflag"
	"github.com/pvyield/pvyield/pkg/estimator"
	"github.com/pvyield/pvyield/pkg/geocode"
	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/report"
	"github.com/pvyield/pvyield/pkg/solcast"
	"github.com/pvyield/pvyield/pkg/storage"
	"github.com/pvyield/pvyield/pkg/types"
)

type options struct {
	workbookPath string
	csvPath      string
	granularity  types.Granularity
}

type estimateRunner interface {
	Estimate(ctx context.Context, req types.EstimateRequest) (types.Estimate, error)
}

func main() {
	ctx := context.Background()

	// a .env file is optional, it only fills in unset environment variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}

	sc := solcast.Configured(nil)
	gc := geocode.Configured(nil)
	s := storage.Configured()

	out := lflag.String("out", "solar-yield-analysis.xlsx", "Path of the workbook to write the results and charts to, empty to skip")
	csvOut := lflag.String("csv", "", "Path of a csv file to write the bucket table to")
	granularity := lflag.String("granularity", string(types.GranularityMonthly), "Bucket granularity (daily or monthly)")

	lflag.Configure()

	if _, err := log.Setup(); err != nil {
		panic(err)
	}

	g, err := types.ParseGranularity(*granularity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := sc.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	e := estimator.New(sc, s, gc, nil)
	err = run(ctx, e, os.Stdin, os.Stdout, options{
		workbookPath: *out,
		csvPath:      *csvOut,
		granularity:  g,
	})
	if cerr := s.Close(); cerr != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", slog.Any("error", cerr))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run asks for the request, runs the estimate, prints the summaries and writes
// the requested files.
func run(ctx context.Context, e estimateRunner, in io.Reader, out io.Writer, opts options) error {
	req, err := newPrompter(in, out).readRequest(opts.granularity)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Fetching historical weather data...")
	est, err := e.Estimate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to run estimate: %w", err)
	}

	for _, s := range []types.Summary{est.Yearly, est.Monthly} {
		fmt.Fprintf(out, "\n%s\n%s", report.Title(s), report.Text(s))
		for _, p := range s.Points {
			fmt.Fprintf(out, "  %-10s %10.2f %s\n", p.Label, p.Value, s.Unit)
		}
	}

	if opts.workbookPath != "" {
		if err := writeFile(opts.workbookPath, func(w io.Writer) error {
			return report.WriteWorkbook(w, est.Buckets, est.Yearly, est.Monthly)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWrote %s\n", opts.workbookPath)
	}
	if opts.csvPath != "" {
		if err := writeFile(opts.csvPath, func(w io.Writer) error {
			return report.WriteCSV(w, est.Buckets)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", opts.csvPath)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
