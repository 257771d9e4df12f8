// Package slot turns shop-local wall-clock bookings into offset-qualified
// calendar intervals and knows the shop's bookable window.
//
// All arithmetic is done on calendar components. The host timezone is never
// consulted, so a booking entered at 23:45 on the last day of a month ends on
// the first day of the next month regardless of where the server runs.
package slot

import (
	"barber/shared/constant"
	"barber/shared/timezone"
	"fmt"
	"time"
)

// DurationMinutes is the length of one appointment.
const DurationMinutes = 30

const (
	minutesPerHour = 60
	hoursPerDay    = 24
	monthsPerYear  = 12
)

// Date is a calendar day in the shop timezone.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Clock is a wall-clock time of day in the shop timezone.
type Clock struct {
	Hour   int
	Minute int
}

// Stamp is a shop-local date and time.
type Stamp struct {
	Date
	Clock
}

// Interval is a booked span with both ends in the shop timezone.
type Interval struct {
	Start    Stamp
	End      Stamp
	TimeZone string
}

// ParseDate reads a YYYY-MM-DD value into its components.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(constant.DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}

	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// ParseClock reads an HH:mm value into its components.
func ParseClock(value string) (Clock, error) {
	t, err := time.Parse(constant.ClockLayout, value)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", value, err)
	}

	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// IsLeap reports whether year has a February 29th.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days of month in year.
func DaysIn(year, month int) int {
	switch month {
	case 2:
		if IsLeap(year) {
			return 29
		}

		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// Translate derives the interval starting at date/clock and lasting
// durationMinutes. durationMinutes must not exceed one day.
func Translate(date Date, clock Clock, durationMinutes int) Interval {
	totalMinutes := clock.Minute + durationMinutes
	end := Stamp{
		Date: date,
		Clock: Clock{
			Hour:   clock.Hour + totalMinutes/minutesPerHour,
			Minute: totalMinutes % minutesPerHour,
		},
	}

	if end.Hour >= hoursPerDay {
		end.Hour -= hoursPerDay
		end.Date = date.Next()
	}

	return Interval{
		Start:    Stamp{Date: date, Clock: clock},
		End:      end,
		TimeZone: timezone.Name,
	}
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	next := Date{Year: d.Year, Month: d.Month, Day: d.Day + 1}

	if next.Day > DaysIn(d.Year, d.Month) {
		next.Day = 1
		next.Month++
	}

	if next.Month > monthsPerYear {
		next.Month = 1
		next.Year++
	}

	return next
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Minutes returns the minutes elapsed since midnight.
func (c Clock) Minutes() int {
	return c.Hour*minutesPerHour + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// String renders the stamp as an RFC 3339 timestamp with the shop offset.
func (s Stamp) String() string {
	return fmt.Sprintf("%sT%s:00%s", s.Date, s.Clock, timezone.Offset)
}

// Time returns the absolute instant of the stamp.
func (s Stamp) Time() time.Time {
	return time.Date(s.Year, time.Month(s.Month), s.Day, s.Hour, s.Minute, 0, 0, timezone.GetLocation())
}

func (i Interval) String() string {
	return i.Start.String() + "/" + i.End.String()
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) share any instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
