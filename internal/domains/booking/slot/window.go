package slot

import (
	"errors"
	"fmt"
	"time"
)

// The shop takes appointments from 10:30 until the last start at 19:30,
// every half hour, Monday to Saturday.
var (
	Opening     = Clock{Hour: 10, Minute: 30}
	LastStart   = Clock{Hour: 19, Minute: 30}
	StepMinutes = 30
	ClosedDay   = time.Sunday
)

var (
	ErrClosedDay     = errors.New("the shop is closed on Sundays")
	ErrOutsideWindow = fmt.Errorf("appointments start between %s and %s", Opening, LastStart)
	ErrOffGrid       = fmt.Errorf("appointments start every %d minutes", StepMinutes)
	ErrInPast        = errors.New("the requested time is in the past")
)

// Window lists every bookable start time of an open day.
func Window() []Clock {
	clocks := make([]Clock, 0, (LastStart.Minutes()-Opening.Minutes())/StepMinutes+1)

	for m := Opening.Minutes(); m <= LastStart.Minutes(); m += StepMinutes {
		clocks = append(clocks, Clock{Hour: m / minutesPerHour, Minute: m % minutesPerHour})
	}

	return clocks
}

// WindowDescription summarizes the opening hours for error responses.
func WindowDescription() string {
	return fmt.Sprintf("%s - %s, every %d minutes, closed on Sundays", Opening, LastStart, StepMinutes)
}

// CheckBookable validates a requested start against the opening policy.
func CheckBookable(date Date, clock Clock, now time.Time) error {
	if date.Weekday() == ClosedDay {
		return ErrClosedDay
	}

	if clock.Minutes() < Opening.Minutes() || clock.Minutes() > LastStart.Minutes() {
		return ErrOutsideWindow
	}

	if (clock.Minutes()-Opening.Minutes())%StepMinutes != 0 {
		return ErrOffGrid
	}

	if !(Stamp{Date: date, Clock: clock}).Time().After(now) {
		return ErrInPast
	}

	return nil
}

// Busy is an occupied span on the calendar.
type Busy struct {
	Start time.Time
	End   time.Time
}

// Free returns the window slots of date that start after now and do not
// overlap any busy span.
func Free(date Date, busy []Busy, now time.Time) []Clock {
	if date.Weekday() == ClosedDay {
		return []Clock{}
	}

	free := make([]Clock, 0, len(Window()))

	for _, clock := range Window() {
		interval := Translate(date, clock, DurationMinutes)
		start, end := interval.Start.Time(), interval.End.Time()

		if !start.After(now) {
			continue
		}

		taken := false

		for _, b := range busy {
			if Overlaps(start, end, b.Start, b.End) {
				taken = true

				break
			}
		}

		if !taken {
			free = append(free, clock)
		}
	}

	return free
}

// DayBounds returns the instants of the first slot start and last slot end of date.
func DayBounds(date Date) (time.Time, time.Time) {
	return Stamp{Date: date, Clock: Opening}.Time(), Translate(date, LastStart, DurationMinutes).End.Time()
}
