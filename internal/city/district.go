package city

import (
	"fmt"
	"math"
)

// RegionID identifies a clickable map region: one of the four districts or HQ.
type RegionID string

const (
	AmberHaze   RegionID = "D-01"
	VioletSky   RegionID = "D-02"
	RedLight    RegionID = "D-03"
	EmeraldPark RegionID = "D-04"

	// HQ is a selection/camera target only. It never appears in the district list.
	HQ RegionID = "HQ"
)

// IsDistrict reports whether id names one of the four physical districts.
func (id RegionID) IsDistrict() bool {
	switch id {
	case AmberHaze, VioletSky, RedLight, EmeraldPark:
		return true
	default:
		return false
	}
}

// DistrictIDs lists the four district ids in map order.
func DistrictIDs() []RegionID {
	return []RegionID{AmberHaze, VioletSky, RedLight, EmeraldPark}
}

// Valid reports whether id is a district or HQ.
func (id RegionID) Valid() bool {
	return id == HQ || id.IsDistrict()
}

// --- Status ---

// Status is the derived health of a district.
type Status int

const (
	StatusNormal Status = iota
	StatusWarning
	StatusCritical
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "NORMAL"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the status by name so JSON payloads read "CRITICAL" rather than 2.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "NORMAL":
		*s = StatusNormal
	case "WARNING":
		*s = StatusWarning
	case "CRITICAL":
		*s = StatusCritical
	default:
		return fmt.Errorf("unknown district status %q", string(b))
	}
	return nil
}

// Metric bounds and status thresholds.
const (
	MinPowerLoad   = 0.0
	MaxPowerLoad   = 100.0
	MinTemperature = 10.0
	MaxTemperature = 110.0

	criticalLoad = 85.0
	criticalTemp = 90.0
	warningLoad  = 70.0
	warningTemp  = 75.0
)

// StatusFor derives a status from already-clamped metrics. CRITICAL is checked first.
func StatusFor(powerLoad, temperature float64) Status {
	if powerLoad > criticalLoad || temperature > criticalTemp {
		return StatusCritical
	}
	if powerLoad > warningLoad || temperature > warningTemp {
		return StatusWarning
	}
	return StatusNormal
}

// --- District ---

// District is one quadrant of the city. Only the numeric fields and Status change at runtime.
type District struct {
	ID               RegionID `json:"id"`
	Name             string   `json:"name"`
	PowerLoad        float64  `json:"powerLoad"`        // percent, [0,100]
	Temperature      float64  `json:"temperature"`      // degrees, [10,110]
	Population       float64  `json:"population"`       // thousands
	CreditsGenerated int64    `json:"creditsGenerated"` // non-decreasing
	Status           Status   `json:"status"`
}

// normalize clamps both metrics and recomputes Status. Every mutation path ends here.
func (d *District) normalize() {
	d.PowerLoad = clamp(d.PowerLoad, MinPowerLoad, MaxPowerLoad)
	d.Temperature = clamp(d.Temperature, MinTemperature, MaxTemperature)
	d.Status = StatusFor(d.PowerLoad, d.Temperature)
}

// SeedDistricts returns the fixed session bootstrap list in map order.
func SeedDistricts() []District {
	seed := []District{
		{ID: AmberHaze, Name: "AMBER HAZE", PowerLoad: 45, Temperature: 42, Population: 12.5, CreditsGenerated: 1250},
		{ID: VioletSky, Name: "VIOLET SKY", PowerLoad: 65, Temperature: 55, Population: 45.2, CreditsGenerated: 800},
		{ID: RedLight, Name: "RED LIGHT DISTRICT", PowerLoad: 30, Temperature: 28, Population: 8.9, CreditsGenerated: 2100},
		{ID: EmeraldPark, Name: "EMERALD PARK", PowerLoad: 15, Temperature: 22, Population: 3.4, CreditsGenerated: 4500},
	}
	for i := range seed {
		seed[i].normalize()
	}
	return seed
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
