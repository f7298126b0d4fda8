package model

import (
	"fmt"
	"time"
)

// Wire formats for calendar keys. All stored dates and times use these
// fixed layouts; comparisons against "now" parse with SlotLayout.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
	SlotLayout = "2006-01-02 15:04"
)

// TimeSlot is one bookable viewing opportunity: a calendar day plus an
// hour:minute within it.
type TimeSlot struct {
	Date string `json:"date" validate:"required,date_key"`
	Time string `json:"time" validate:"required,time_key"`
}

func (s TimeSlot) String() string {
	return s.Date + " " + s.Time
}

// Instant parses the composite slot string into a concrete time in loc.
func (s TimeSlot) Instant(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(SlotLayout, s.String(), loc)
}

// ParseSlot splits a stored "2006-01-02 15:04" composite into its keys.
func ParseSlot(composite string) (TimeSlot, error) {
	if _, err := time.Parse(SlotLayout, composite); err != nil {
		return TimeSlot{}, fmt.Errorf("invalid time slot %q: %w", composite, err)
	}
	return TimeSlot{Date: composite[:len(DateLayout)], Time: composite[len(DateLayout)+1:]}, nil
}

// IsBusinessDay reports whether the date key falls on Monday through Friday.
// Unparsable keys are not business days.
func IsBusinessDay(dateKey string) bool {
	d, err := time.Parse(DateLayout, dateKey)
	if err != nil {
		return false
	}
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
