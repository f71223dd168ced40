package service

// Glucose status bands in mg/dL.
const (
	StatusLow      = "low"
	StatusNormal   = "normal"
	StatusHigh     = "high"
	StatusVeryHigh = "very_high"
)

// ClassifyGlucose maps a level to its status band.
func ClassifyGlucose(level int) string {
	switch {
	case level < 70:
		return StatusLow
	case level <= 140:
		return StatusNormal
	case level <= 200:
		return StatusHigh
	default:
		return StatusVeryHigh
	}
}
