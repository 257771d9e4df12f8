// Package timezone pins the application to the shop's wall clock.
//
// The shop observes a fixed UTC+3 offset with no daylight saving, so the
// location is built with time.FixedZone instead of the host tz database:
//
//	now := timezone.Now()                       // current shop-local time
//	t, err := timezone.Parse("2006-01-02", "2024-06-10")
//	s := timezone.Format(t, time.RFC3339)       // 2024-06-10T00:00:00+03:00
//
// Name is the IANA label sent alongside timestamps to the calendar backend.
package timezone
