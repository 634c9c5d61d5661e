package types

// SummaryKind selects how bucket yields are grouped for presentation.
type SummaryKind string

const (
	// SummaryYears totals the yield of each year.
	SummaryYears SummaryKind = "Years"
	// SummaryMonths averages the yield of each calendar month across years.
	SummaryMonths SummaryKind = "Months"
)

// EnergyUnit is the unit summary values are expressed in.
type EnergyUnit string

const (
	UnitKWh EnergyUnit = "KWh"
	UnitMWh EnergyUnit = "MWh"
	UnitGWh EnergyUnit = "GWh"
)

// SummaryPoint is a single labeled value of a summary, e.g. "2023" or "January".
type SummaryPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Summary is the presentation input: grouped yields with basic statistics.
type Summary struct {
	Kind        SummaryKind    `json:"kind"`
	Location    string         `json:"location"`
	PanelAreaM2 int            `json:"panelAreaM2"`
	Unit        EnergyUnit     `json:"unit"`
	Points      []SummaryPoint `json:"points"`
	Max         float64        `json:"max"`
	Min         float64        `json:"min"`
	Mean        float64        `json:"mean"`
}
