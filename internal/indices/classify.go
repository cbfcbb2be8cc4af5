package indices

// Category labels shared by both classifications.
const (
	CategoryUnknown = "Unknown"
	CategorySafe    = "Safe"
)

// HMPI category labels.
const (
	CategoryLowPollution      = "Low Pollution"
	CategoryHighPollution     = "High Pollution"
	CategoryVeryHighPollution = "Very High Pollution"
)

// MCI category labels.
const (
	CategoryAlert              = "Alert"
	CategoryModeratelyAffected = "Moderately Affected"
	CategorySeriouslyAffected  = "Seriously Affected"
)

// Classification thresholds. These encode the scientific category scheme
// and are deliberately not configurable. All intervals are half-open:
// inclusive on the lower bound, exclusive on the upper.
const (
	ThresholdHMPILow      = 50.0
	ThresholdHMPIHigh     = 100.0
	ThresholdHMPIVeryHigh = 200.0

	ThresholdMCIAlert    = 1.0
	ThresholdMCIModerate = 2.0
	ThresholdMCISerious  = 6.0
)

// CategorizeHMPI maps an HMPI value to its category. Total over Value:
// the undefined value maps to Unknown.
func CategorizeHMPI(v Value) string {
	switch {
	case !v.Defined:
		return CategoryUnknown
	case v.Float64 < ThresholdHMPILow:
		return CategorySafe
	case v.Float64 < ThresholdHMPIHigh:
		return CategoryLowPollution
	case v.Float64 < ThresholdHMPIVeryHigh:
		return CategoryHighPollution
	default:
		return CategoryVeryHighPollution
	}
}

// CategorizeMCI maps an MCI value to its category.
func CategorizeMCI(v Value) string {
	switch {
	case !v.Defined:
		return CategoryUnknown
	case v.Float64 < ThresholdMCIAlert:
		return CategorySafe
	case v.Float64 < ThresholdMCIModerate:
		return CategoryAlert
	case v.Float64 < ThresholdMCISerious:
		return CategoryModeratelyAffected
	default:
		return CategorySeriouslyAffected
	}
}
