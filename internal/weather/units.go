package weather

import "math"

// TempUnit selects the display unit for temperatures.
type TempUnit string

// WindUnit selects the display unit for wind speeds.
type WindUnit string

const (
	TempCelsius    TempUnit = "C"
	TempFahrenheit TempUnit = "F"

	WindKph WindUnit = "kph"
	WindMph WindUnit = "mph"
)

// ParseTempUnit returns the unit for a stored string value, defaulting to
// Celsius for anything unrecognized.
func ParseTempUnit(s string) TempUnit {
	if s == string(TempFahrenheit) {
		return TempFahrenheit
	}
	return TempCelsius
}

// ParseWindUnit returns the unit for a stored string value, defaulting to
// kph for anything unrecognized. "km/h" is accepted as a legacy spelling.
func ParseWindUnit(s string) WindUnit {
	switch s {
	case string(WindMph):
		return WindMph
	case string(WindKph), "km/h":
		return WindKph
	}
	return WindKph
}

// ConvertTemp converts a metric temperature to the display unit, rounding
// half away from zero. Internal storage keeps full precision; conversion
// happens on read. NaN propagates to the caller.
func ConvertTemp(celsius float64, unit TempUnit) float64 {
	if unit == TempFahrenheit {
		return math.Round(celsius*9/5 + 32)
	}
	return math.Round(celsius)
}

// ConvertWind converts a metric wind speed to the display unit, rounding
// half away from zero.
func ConvertWind(kph float64, unit WindUnit) float64 {
	if unit == WindMph {
		return math.Round(kph * 0.621371)
	}
	return math.Round(kph)
}

// RainProbability derives a display rain probability from precipitation.
// The precip*33 factor is a simplified placeholder, not a physical model.
func RainProbability(precipMm float64) int {
	p := int(math.Round(precipMm * 33))
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
