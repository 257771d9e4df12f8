package timezone

import (
	"time"
)

const (
	// Offset is the shop's UTC offset as it appears in RFC 3339 timestamps.
	Offset        = "+03:00"
	OffsetSeconds = 3 * 60 * 60
	// Name is the IANA zone the calendar displays events in.
	Name = "Europe/Istanbul"
)

var appLocation = time.FixedZone(Offset, OffsetSeconds)

// Now returns the current time in the shop timezone
func Now() time.Time {
	return time.Now().In(appLocation)
}

// ToAppTime converts a time to the shop timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

// GetLocation returns the shop timezone location
func GetLocation() *time.Location {
	return appLocation
}

// Parse parses a time string in the shop timezone
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation)
}

// Format formats a time in the shop timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
