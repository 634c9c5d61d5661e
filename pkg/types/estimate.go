package types

import (
	"fmt"
	"time"
)

const (
	// MinYears and MaxYears bound how much history can be requested.
	MinYears = 2
	MaxYears = 10
)

// EstimateRequest is the input for a yield estimate.
type EstimateRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Years     int     `json:"years"`
	// PanelAreaM2 is the total panel area in square meters.
	PanelAreaM2 int `json:"panelAreaM2"`
	// STCEfficiency is a percentage, e.g. 20 for 20%.
	STCEfficiency float64 `json:"stcEfficiency"`
	// TempCoefficient is a percentage per degree, e.g. -0.4.
	TempCoefficient float64     `json:"tempCoefficient"`
	Granularity     Granularity `json:"granularity"`
}

// Site returns the site described by the request.
func (r EstimateRequest) Site() Site {
	return Site{Latitude: r.Latitude, Longitude: r.Longitude}
}

// Validate checks the fields that are not validated by the panel model.
func (r EstimateRequest) Validate() error {
	if err := r.Site().Validate(); err != nil {
		return err
	}
	if r.Years < MinYears || r.Years > MaxYears {
		return fmt.Errorf("%w: years must be between %d and %d, got %d", ErrInvalidArgument, MinYears, MaxYears, r.Years)
	}
	if r.PanelAreaM2 < 0 {
		return fmt.Errorf("%w: panel area must not be negative, got %d", ErrInvalidArgument, r.PanelAreaM2)
	}
	if _, err := ParseGranularity(string(r.Granularity)); err != nil {
		return err
	}
	return nil
}

// Estimate is the result of running the yield simulation for a site.
type Estimate struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	Request     EstimateRequest `json:"request"`
	Site        Site            `json:"site"`
	Granularity Granularity     `json:"granularity"`
	Buckets     []Bucket        `json:"buckets"`
	Yearly      Summary         `json:"yearly"`
	Monthly     Summary         `json:"monthly"`
}
