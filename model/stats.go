package model

const (
	StatStrength      = "strength"
	StatIntelligence  = "intelligence"
	StatDiscipline    = "discipline"
	StatFocus         = "focus"
	StatCommunication = "communication"
	StatAdaptability  = "adaptability"
)

// StatNames lists the stats in display order.
var StatNames = []string{
	StatStrength,
	StatIntelligence,
	StatDiscipline,
	StatFocus,
	StatCommunication,
	StatAdaptability,
}

type Stats map[string]float64

func DefaultStats() Stats {
	stats := make(Stats, len(StatNames))
	for _, name := range StatNames {
		stats[name] = 0
	}
	return stats
}

func (s Stats) Clone() Stats {
	if s == nil {
		return nil
	}
	out := make(Stats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// StatDisplayRange is the absolute stat value mapped to a full bar.
const StatDisplayRange = 50.0

// StatWidthPercent maps a stat in [-50, 50] onto a 0..100 bar width.
func StatWidthPercent(value float64) float64 {
	pct := (value + StatDisplayRange) / (StatDisplayRange * 2) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

type StatBand string

const (
	StatBandNegative StatBand = "negative"
	StatBandLow      StatBand = "low"
	StatBandMid      StatBand = "mid"
	StatBandHigh     StatBand = "high"
)

func BandFor(value float64) StatBand {
	switch {
	case value < 0:
		return StatBandNegative
	case value < 10:
		return StatBandLow
	case value < 25:
		return StatBandMid
	default:
		return StatBandHigh
	}
}
