// Package panel models the temperature dependent efficiency of a PV panel.
package panel

import (
	"fmt"

	"github.com/pvyield/pvyield/pkg/types"
)

const (
	// NOCT is the nominal operating cell temperature in °C.
	NOCT = 45.0
	// GNOCT is the irradiance in W/m2 at which NOCT is measured.
	GNOCT = 800.0
	// STCTemp is the cell temperature in °C at standard test conditions.
	STCTemp = 25.0

	// InverterFactor is the DC to AC conversion factor applied to every yield.
	InverterFactor = 0.96

	minSTCEfficiency   = 10.0
	maxSTCEfficiency   = 30.0
	minTempCoefficient = -0.5
	maxTempCoefficient = -0.3
)

// SolarPanel holds the validated physical constants of a panel. The zero value
// is not usable, construct with New.
type SolarPanel struct {
	noct            float64
	gNOCT           float64
	stcTemp         float64
	stcEfficiency   float64
	tempCoefficient float64
}

// ValidateSTCEfficiency checks the STC efficiency is strictly between 10 and 30
// percent.
func ValidateSTCEfficiency(v float64) error {
	if !(v > minSTCEfficiency && v < maxSTCEfficiency) {
		return fmt.Errorf("%w: STC efficiency must be between %v and %v, got %v", types.ErrInvalidArgument, minSTCEfficiency, maxSTCEfficiency, v)
	}
	return nil
}

// ValidateTempCoefficient checks the temperature coefficient is strictly
// between -0.5 and -0.3 percent per °C.
func ValidateTempCoefficient(v float64) error {
	if !(v > minTempCoefficient && v < maxTempCoefficient) {
		return fmt.Errorf("%w: temperature coefficient must be between %v and %v, got %v", types.ErrInvalidArgument, minTempCoefficient, maxTempCoefficient, v)
	}
	return nil
}

// New returns a panel with the fixed NOCT constants and the given STC
// efficiency (percent, exclusive range 10-30) and temperature coefficient
// (percent per °C, exclusive range -0.5 to -0.3).
func New(stcEfficiency, tempCoefficient float64) (SolarPanel, error) {
	if err := ValidateSTCEfficiency(stcEfficiency); err != nil {
		return SolarPanel{}, err
	}
	if err := ValidateTempCoefficient(tempCoefficient); err != nil {
		return SolarPanel{}, err
	}
	return SolarPanel{
		noct:            NOCT,
		gNOCT:           GNOCT,
		stcTemp:         STCTemp,
		stcEfficiency:   stcEfficiency,
		tempCoefficient: tempCoefficient,
	}, nil
}

// NOCT returns the nominal operating cell temperature.
func (p SolarPanel) NOCT() float64 { return p.noct }

// GNOCT returns the NOCT reference irradiance.
func (p SolarPanel) GNOCT() float64 { return p.gNOCT }

// STCTemp returns the standard test condition temperature.
func (p SolarPanel) STCTemp() float64 { return p.stcTemp }

// STCEfficiency returns the rated efficiency in percent.
func (p SolarPanel) STCEfficiency() float64 { return p.stcEfficiency }

// TempCoefficient returns the temperature coefficient in percent per °C.
func (p SolarPanel) TempCoefficient() float64 { return p.tempCoefficient }

// CellTemperature estimates the cell temperature in °C from the ambient
// temperature and the average hourly irradiance in W/m2.
func (p SolarPanel) CellTemperature(ambientTemp, avgHourlyIrradiance float64) float64 {
	return ambientTemp + (avgHourlyIrradiance/p.gNOCT)*(p.noct-20)
}

// AdjustedEfficiency returns the efficiency as a fraction after correcting for
// the cell temperature.
func (p SolarPanel) AdjustedEfficiency(ambientTemp, avgHourlyIrradiance float64) float64 {
	cellTemp := p.CellTemperature(ambientTemp, avgHourlyIrradiance)
	return p.stcEfficiency * (1 - (p.tempCoefficient/100)*(cellTemp-p.stcTemp)) / 100
}

// EnergyYield returns the AC energy in KWh produced by panelAreaM2 of panels
// receiving totalIrradianceWh Wh/m2.
// A zero or negative area yields a zero or negative result.
func (p SolarPanel) EnergyYield(ambientTemp, avgHourlyIrradiance, totalIrradianceWh, panelAreaM2 float64) float64 {
	eff := p.AdjustedEfficiency(ambientTemp, avgHourlyIrradiance)
	return totalIrradianceWh * panelAreaM2 * eff / 1000 * InverterFactor
}
