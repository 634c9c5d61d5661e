package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pvyield/pvyield/pkg/daterange"
	"github.com/pvyield/pvyield/pkg/panel"
	"github.com/pvyield/pvyield/pkg/types"
)

const maxAttempts = 3

// errNoInput is returned when input ends before a valid value was given.
var errNoInput = errors.New("no more input")

// prompter asks for values on out and reads answers from in.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// ask prompts for a value up to maxAttempts times. parse is called with the
// trimmed answer and should return an error for invalid input, in which case
// hint is printed and the question repeated.
func (p *prompter) ask(question, hint, field string, parse func(string) error) error {
	for range maxAttempts {
		fmt.Fprintf(p.out, "%s: ", question)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return fmt.Errorf("failed to read %s: %w", field, err)
			}
			return fmt.Errorf("failed to read %s: %w", field, errNoInput)
		}
		if err := parse(strings.TrimSpace(p.in.Text())); err == nil {
			return nil
		}
		fmt.Fprintln(p.out, hint)
	}
	return fmt.Errorf("%w: failed to provide valid %s after %d attempts", types.ErrInvalidArgument, field, maxAttempts)
}

// parsePercent parses a float that may be wrapped in spaces or percent signs.
func parsePercent(s string) (float64, error) {
	return strconv.ParseFloat(strings.Trim(s, " %"), 64)
}

// readRequest interactively collects every field of an estimate request.
func (p *prompter) readRequest(g types.Granularity) (types.EstimateRequest, error) {
	req := types.EstimateRequest{Granularity: g}

	err := p.ask("Latitude", "Invalid latitude or format. Use decimal degrees.", "latitude", func(s string) error {
		v, err := types.ParseLatitude(s)
		req.Latitude = v
		return err
	})
	if err != nil {
		return req, err
	}

	err = p.ask("Longitude", "Invalid longitude or format. Use decimal degrees.", "longitude", func(s string) error {
		v, err := types.ParseLongitude(s)
		req.Longitude = v
		return err
	})
	if err != nil {
		return req, err
	}

	err = p.ask(
		"Number of years back from current year to fetch data for (integer format)",
		fmt.Sprintf("Year must be an integer value between %d and %d.", types.MinYears, types.MaxYears),
		"year",
		func(s string) error {
			v, err := daterange.ParseYears(s)
			req.Years = v
			return err
		},
	)
	if err != nil {
		return req, err
	}

	err = p.ask("Total panel area in m2", "Panel area must be a positive integer.", "total panel area", func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("%w: panel area must not be negative", types.ErrInvalidArgument)
		}
		req.PanelAreaM2 = v
		return nil
	})
	if err != nil {
		return req, err
	}

	err = p.ask(
		"Module efficiency at standard test conditions (%)",
		"Module efficiency at STC must be a value between 10 and 30.",
		"module efficiency",
		func(s string) error {
			v, err := parsePercent(s)
			if err != nil {
				return err
			}
			if err := panel.ValidateSTCEfficiency(v); err != nil {
				return err
			}
			req.STCEfficiency = v
			return nil
		},
	)
	if err != nil {
		return req, err
	}

	err = p.ask(
		"Temperature coefficient of PMax (% per degree celsius)",
		"Temperature coefficient of PMax must be a value between -0.5 and -0.3.",
		"temperature coefficient of PMax",
		func(s string) error {
			v, err := parsePercent(s)
			if err != nil {
				return err
			}
			if err := panel.ValidateTempCoefficient(v); err != nil {
				return err
			}
			req.TempCoefficient = v
			return nil
		},
	)
	return req, err
}
