// Package units provides shared constants and validation for distance units
package units

// Unit constants
const (
	KM = "km"
	MI = "mi"
	M  = "m"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{KM, MI, M}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "km, mi, m"
}

// ConvertDistance converts a distance from kilometres to the target units.
// Distance matrices are computed in km.
func ConvertDistance(distKM float64, targetUnits string) float64 {
	switch targetUnits {
	case KM:
		return distKM
	case MI:
		return distKM * 0.621371192
	case M:
		return distKM * 1000
	default:
		return distKM
	}
}
