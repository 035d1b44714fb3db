package weather

// Icon identifies a weather glyph by its base name. Day and night variants of
// the clear band are distinct names rather than a suffix spliced into a path.
type Icon struct {
	Name string
}

// AssetPath returns the relative path the hourly cells render.
func (i Icon) AssetPath() string {
	return "../static/img/" + i.Name + "-1.svg"
}

// SummaryAssetPath returns the variant-suffix-free path used by the
// current-conditions widget.
func (i Icon) SummaryAssetPath() string {
	return "../static/img/" + i.Name + ".svg"
}

var (
	iconClearDay = Icon{Name: "clear_day"}
	iconNight    = Icon{Name: "bedtime"}
)

// iconByCode maps Open-Meteo weather codes to glyphs. The 0-3 clear band is
// absent here because it is the only day/night-sensitive range.
var iconByCode = map[int]Icon{
	45: {Name: "fog"},
	48: {Name: "fog"},
	51: {Name: "cloud"},
	53: {Name: "cloud"},
	55: {Name: "cloud"},
	56: {Name: "rainy"},
	57: {Name: "rainy"},
	61: {Name: "rainy"},
	63: {Name: "rainy"},
	65: {Name: "rainy"},
	66: {Name: "rainy"},
	67: {Name: "rainy"},
	71: {Name: "cloudy_snowing"},
	73: {Name: "cloudy_snowing"},
	75: {Name: "cloudy_snowing"},
	77: {Name: "cloudy_snowing"},
	80: {Name: "rainy"},
	81: {Name: "rainy"},
	82: {Name: "rainy"},
	85: {Name: "cloudy_snowing"},
	86: {Name: "ac_unit"},
	95: {Name: "thunderstorm"},
	96: {Name: "thunderstorm"},
	99: {Name: "thunderstorm"},
}

// ResolveIcon maps an Open-Meteo weather code to a glyph. Codes 0-3 resolve
// to the clear-day glyph during the day and the night glyph otherwise; unknown
// codes fall back to clear-day.
func ResolveIcon(code int, isDay bool) Icon {
	if code >= 0 && code <= 3 {
		if isDay {
			return iconClearDay
		}
		return iconNight
	}
	if icon, ok := iconByCode[code]; ok {
		return icon
	}
	return iconClearDay
}

// DayLabel returns the display label for the is_day flag.
func DayLabel(isDay bool) string {
	if isDay {
		return "day"
	}
	return "night"
}
