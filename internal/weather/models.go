package weather

import (
	"sync"
	"time"
)

// HourEntry is one rendered hour of the forecast window. Numeric fields are
// already formatted for display.
type HourEntry struct {
	Hour              string // two-digit hour-of-day label, "00".."23"
	Temperature       string // e.g. "21°"
	Humidity          string // e.g. "60%"
	WindSpeed         string // e.g. "5 m/s"
	PrecipProbability string // e.g. "10%"
	IsDay             string // "day" or "night"
	Icon              Icon
}

// Forecast holds the hourly entries of the rolling 24-hour window in
// chronological order.
type Forecast []HourEntry

// At returns the entry with the given hour label.
func (f Forecast) At(hour string) (HourEntry, bool) {
	for _, e := range f {
		if e.Hour == hour {
			return e, true
		}
	}
	return HourEntry{}, false
}

var (
	tzOnce sync.Once
	tz     *time.Location
)

// ForecastLocation returns the fixed timezone the forecast window and the
// current-hour lookup use. Falls back to a fixed UTC+3 zone when the host has
// no tzdata.
func ForecastLocation() *time.Location {
	tzOnce.Do(func() {
		loc, err := time.LoadLocation("Europe/Moscow")
		if err != nil {
			loc = time.FixedZone("MSK", 3*60*60)
		}
		tz = loc
	})
	return tz
}
