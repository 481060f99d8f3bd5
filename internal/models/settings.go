package models

// WeightUnit is the display unit. Storage and computation always use kg.
type WeightUnit string

const (
	UnitKg WeightUnit = "kg"
	UnitLb WeightUnit = "lb"
)

// LbPerKg is the conversion factor applied only at the presentation boundary.
const LbPerKg = 2.2046226218

// ProgressionMode selects how auto-progression suggests the next load.
type ProgressionMode string

const (
	ProgressionPercent  ProgressionMode = "percent"
	ProgressionRepCycle ProgressionMode = "rep_cycle"
)

// Settings is the single process-wide settings instance, lazily created on
// first read if absent.
type Settings struct {
	Unit                WeightUnit      `json:"unit"`
	DefaultRestSec      int             `json:"default_rest_sec"`
	WeightIncrementKg   float64         `json:"weight_increment_kg"`
	WeightIncrementLb   float64         `json:"weight_increment_lb"`
	DumbbellIncrementKg float64         `json:"dumbbell_increment_kg"`
	DumbbellIncrementLb float64         `json:"dumbbell_increment_lb"`
	Progression         ProgressionMode `json:"progression"`
	ProgressionPercent  float64         `json:"progression_percent"`
}

// DefaultSettings returns the values used when no settings row exists yet.
func DefaultSettings() Settings {
	return Settings{
		Unit:                UnitKg,
		DefaultRestSec:      90,
		WeightIncrementKg:   2.5,
		WeightIncrementLb:   5,
		DumbbellIncrementKg: 2,
		DumbbellIncrementLb: 5,
		Progression:         ProgressionPercent,
		ProgressionPercent:  2.5,
	}
}

// DisplayWeight converts a stored kg value into the unit u for presentation.
func DisplayWeight(kg float64, u WeightUnit) float64 {
	if u == UnitLb {
		return kg * LbPerKg
	}
	return kg
}

// StoreWeight converts a value entered in unit u into canonical kg.
func StoreWeight(value float64, u WeightUnit) float64 {
	if u == UnitLb {
		return value / LbPerKg
	}
	return value
}
