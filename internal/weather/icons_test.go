package weather

import "testing"

func TestResolveIconUnknownCodeFallsBack(t *testing.T) {
	for _, code := range []int{-1, 4, 42, 50, 100, 999} {
		for _, isDay := range []bool{true, false} {
			if got := ResolveIcon(code, isDay); got != iconClearDay {
				t.Errorf("ResolveIcon(%d, %v) = %+v, want clear_day fallback", code, isDay, got)
			}
		}
	}
}

func TestResolveIconClearBandIsDayNightSensitive(t *testing.T) {
	for code := 0; code <= 3; code++ {
		day := ResolveIcon(code, true)
		night := ResolveIcon(code, false)

		if day == night {
			t.Errorf("code %d: day and night icons must differ, both %+v", code, day)
		}
		if day != iconClearDay {
			t.Errorf("code %d: day icon = %+v, want clear_day", code, day)
		}
		if night != iconNight {
			t.Errorf("code %d: night icon = %+v, want bedtime", code, night)
		}
	}
}

func TestResolveIconKnownCodesIgnoreDayFlag(t *testing.T) {
	cases := map[int]string{
		45: "fog",
		51: "cloud",
		61: "rainy",
		71: "cloudy_snowing",
		86: "ac_unit",
		95: "thunderstorm",
	}
	for code, name := range cases {
		if got := ResolveIcon(code, true); got.Name != name {
			t.Errorf("ResolveIcon(%d, day) = %q, want %q", code, got.Name, name)
		}
		if got := ResolveIcon(code, false); got.Name != name {
			t.Errorf("ResolveIcon(%d, night) = %q, want %q", code, got.Name, name)
		}
	}
}

func TestIconPaths(t *testing.T) {
	icon := Icon{Name: "clear_day"}
	if got := icon.AssetPath(); got != "../static/img/clear_day-1.svg" {
		t.Errorf("AssetPath() = %q", got)
	}
	if got := icon.SummaryAssetPath(); got != "../static/img/clear_day.svg" {
		t.Errorf("SummaryAssetPath() = %q", got)
	}
}

func TestDayLabel(t *testing.T) {
	if got := DayLabel(true); got != "day" {
		t.Errorf("DayLabel(true) = %q", got)
	}
	if got := DayLabel(false); got != "night" {
		t.Errorf("DayLabel(false) = %q", got)
	}
}
