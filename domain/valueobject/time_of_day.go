package valueobject

import (
	"fmt"
	"time"
)

// timeOfDayLayout accepts "H:MM" and "HH:MM" with a two-digit minute, which is
// exactly the civil time syntax the converter accepts. Seconds, 12-hour
// notation, and surrounding whitespace all fail to parse.
const timeOfDayLayout = "15:04"

// TimeOfDay represents a wall-clock time without a date or zone
type TimeOfDay struct {
	hour   int
	minute int
}

// ParseTimeOfDay parses a 24-hour civil time string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return TimeOfDay{}, err
	}
	return TimeOfDay{hour: t.Hour(), minute: t.Minute()}, nil
}

// IsValidTimeFormat reports whether s is a valid 24-hour HH:MM time string
func IsValidTimeFormat(s string) bool {
	_, err := ParseTimeOfDay(s)
	return err == nil
}

// NewTimeOfDay creates a TimeOfDay from hour and minute components
func NewTimeOfDay(hour int, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("hour out of range: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute out of range: %d", minute)
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// Hour returns the hour component (0-23)
func (t TimeOfDay) Hour() int {
	return t.hour
}

// Minute returns the minute component (0-59)
func (t TimeOfDay) Minute() int {
	return t.minute
}

// String returns the zero-padded HH:MM representation
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// Equals checks if two TimeOfDay values are equal
func (t TimeOfDay) Equals(other TimeOfDay) bool {
	return t.hour == other.hour && t.minute == other.minute
}
