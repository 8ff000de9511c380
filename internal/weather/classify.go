package weather

import "strings"

// codeConditions maps provider weather codes to condition tags. The codes
// follow the Tomorrow.io numbering; anything absent classifies as unknown
// and callers render a generic cloud icon.
var codeConditions = map[int]Condition{
	0:    ConditionClear, // legacy "no data" code used by the demo fixture
	1000: ConditionClear,
	1100: ConditionClear, // mostly clear
	1101: ConditionCloud, // partly cloudy
	1102: ConditionCloud, // mostly cloudy
	1001: ConditionCloud,
	2000: ConditionFog,
	2100: ConditionFog, // light fog
	4000: ConditionRain, // drizzle
	4001: ConditionRain,
	4200: ConditionRain, // light rain
	4201: ConditionRain, // heavy rain
	5000: ConditionSnow,
	5001: ConditionSnow, // flurries
	5100: ConditionSnow, // light snow
	5101: ConditionSnow, // heavy snow
	6000: ConditionSnow, // freezing drizzle
	6001: ConditionSnow, // freezing rain
	6200: ConditionSnow,
	6201: ConditionSnow,
	7000: ConditionSnow, // ice pellets
	7101: ConditionSnow,
	7102: ConditionSnow,
	8000: ConditionStorm,
}

// ClassifyCode maps a provider weather code to a condition tag.
func ClassifyCode(code int) Condition {
	if cond, ok := codeConditions[code]; ok {
		return cond
	}
	return ConditionUnknown
}

// textGroups are checked in order; the first matching group wins. Storm
// keywords come before rain so that "thundery rain showers" classifies as
// storm, and snow before rain so "sleet showers" classifies as snow.
var textGroups = []struct {
	cond     Condition
	keywords []string
}{
	{ConditionStorm, []string{"thunder", "storm", "lightning"}},
	{ConditionSnow, []string{"snow", "sleet", "blizzard", "ice", "freezing"}},
	{ConditionRain, []string{"rain", "drizzle", "shower"}},
	{ConditionFog, []string{"fog", "mist", "haze"}},
	{ConditionCloud, []string{"cloud", "overcast"}},
	{ConditionClear, []string{"clear", "sunny"}},
}

// ClassifyText maps a free-text condition description to a condition tag
// using case-insensitive substring matching. Total: no match or empty input
// returns unknown.
func ClassifyText(text string) Condition {
	s := strings.ToLower(text)
	if s == "" {
		return ConditionUnknown
	}
	for _, g := range textGroups {
		if hasAny(s, g.keywords...) {
			return g.cond
		}
	}
	return ConditionUnknown
}

// hasAny returns true if s contains any of the substrings.
func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
