package calendar

import (
	"errors"
	"iter"
	"sort"
	"time"

	"domus/pkg/model"
)

var (
	ErrTemplateFull = errors.New("slot template is full")

	ErrDuplicateSlot = errors.New("slot time already in template")

	ErrInvalidTimeKey = errors.New("invalid slot time format")

	ErrInvalidDateKey = errors.New("invalid date key format")

	ErrSlotNotFound = errors.New("slot not found")

	ErrPastSlotActivation = errors.New("past slot cannot be reactivated")
)

// Calendar holds the availability policy for one seller's apartment:
// how many business days the window spans and how many slots one day
// may carry. The clock is injected so tests can pin "now".
type Calendar struct {
	windowDays     int
	maxSlotsPerDay int
	now            func() time.Time
}

func New(windowDays, maxSlotsPerDay int, now func() time.Time) *Calendar {
	if now == nil {
		now = time.Now
	}
	return &Calendar{
		windowDays:     windowDays,
		maxSlotsPerDay: maxSlotsPerDay,
		now:            now,
	}
}

// Template accumulates the daily slot times a seller offers. Adding past
// the per-day cap or adding the same time twice is rejected.
type Template struct {
	max   int
	order []string
	seen  map[string]struct{}
}

func (c *Calendar) NewTemplate() *Template {
	return &Template{
		max:  c.maxSlotsPerDay,
		seen: make(map[string]struct{}),
	}
}

func (t *Template) Add(timeKey string) error {
	if _, err := time.Parse(model.TimeLayout, timeKey); err != nil {
		return ErrInvalidTimeKey
	}
	if _, dup := t.seen[timeKey]; dup {
		return ErrDuplicateSlot
	}
	if len(t.order) >= t.max {
		return ErrTemplateFull
	}
	t.seen[timeKey] = struct{}{}
	t.order = append(t.order, timeKey)
	return nil
}

func (t *Template) Times() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// GenerateWindow appends the next n business days to the slots map as empty
// sets; n <= 0 falls back to the configured window size. The window starts at
// today (or the first business day after the latest tracked date, so repeated
// calls extend rather than overlap); Saturdays and Sundays are skipped, never
// counted.
func (c *Calendar) GenerateWindow(slots map[string]map[string]bool, n int) {
	if n <= 0 {
		n = c.windowDays
	}

	day := c.today()
	if latest, ok := latestDate(slots, day.Location()); ok && !latest.Before(day) {
		day = latest.AddDate(0, 0, 1)
	}

	added := 0
	for added < n {
		if isBusinessDay(day) {
			key := day.Format(model.DateLayout)
			if slots[key] == nil {
				slots[key] = make(map[string]bool)
			}
			added++
		}
		day = day.AddDate(0, 0, 1)
	}
}

// ApplyTemplate replaces every tracked day's slot set with the template
// times, all active. Prior per-day differences are discarded.
func (c *Calendar) ApplyTemplate(slots map[string]map[string]bool, tpl *Template) {
	for dateKey := range slots {
		day := make(map[string]bool, len(tpl.order))
		for _, timeKey := range tpl.order {
			day[timeKey] = true
		}
		slots[dateKey] = day
	}
}

// AdvanceDay reconciles today's entry with the clock. A fully elapsed day is
// relocated to the next business day with activity flags preserved; a day
// still in progress only has its past times deactivated.
func (c *Calendar) AdvanceDay(slots map[string]map[string]bool) {
	now := c.now()
	todayKey := now.Format(model.DateLayout)

	today, ok := slots[todayKey]
	if !ok {
		return
	}

	if c.allElapsed(today, now) {
		target := nextBusinessDay(c.today())
		targetKey := target.Format(model.DateLayout)
		if slots[targetKey] == nil {
			slots[targetKey] = make(map[string]bool, len(today))
		}
		for timeKey, active := range today {
			if _, exists := slots[targetKey][timeKey]; !exists {
				slots[targetKey][timeKey] = active
			}
		}
		delete(slots, todayKey)
		return
	}

	for timeKey := range today {
		at, err := time.ParseInLocation(model.SlotLayout, todayKey+" "+timeKey, now.Location())
		if err != nil {
			continue
		}
		if at.Before(now) {
			today[timeKey] = false
		}
	}
}

func validateSlotKeys(dateKey, timeKey string) error {
	if _, err := time.Parse(model.DateLayout, dateKey); err != nil {
		return ErrInvalidDateKey
	}
	if _, err := time.Parse(model.TimeLayout, timeKey); err != nil {
		return ErrInvalidTimeKey
	}
	return nil
}

// RemoveSlot deletes one slot time; a day left empty is dropped entirely.
func (c *Calendar) RemoveSlot(slots map[string]map[string]bool, dateKey, timeKey string) error {
	if err := validateSlotKeys(dateKey, timeKey); err != nil {
		return err
	}
	day, ok := slots[dateKey]
	if !ok {
		return ErrSlotNotFound
	}
	if _, ok := day[timeKey]; !ok {
		return ErrSlotNotFound
	}
	delete(day, timeKey)
	if len(day) == 0 {
		delete(slots, dateKey)
	}
	return nil
}

// SetSlotActive toggles one slot's availability. A slot whose instant has
// already passed can be deactivated but never turned back on.
func (c *Calendar) SetSlotActive(slots map[string]map[string]bool, dateKey, timeKey string, active bool) error {
	if err := validateSlotKeys(dateKey, timeKey); err != nil {
		return err
	}
	day, ok := slots[dateKey]
	if !ok {
		return ErrSlotNotFound
	}
	if _, ok := day[timeKey]; !ok {
		return ErrSlotNotFound
	}

	if active {
		now := c.now()
		at, _ := time.ParseInLocation(model.SlotLayout, dateKey+" "+timeKey, now.Location())
		if at.Before(now) {
			return ErrPastSlotActivation
		}
	}

	day[timeKey] = active
	return nil
}

// ActiveFutureSlots yields the bookable times of one day in ascending order:
// active slots whose composite instant is not earlier than now. The sequence
// is restartable; each range re-reads the map and the clock.
func (c *Calendar) ActiveFutureSlots(slots map[string]map[string]bool, dateKey string) iter.Seq[string] {
	return func(yield func(string) bool) {
		day, ok := slots[dateKey]
		if !ok {
			return
		}

		now := c.now()
		keys := make([]string, 0, len(day))
		for timeKey, active := range day {
			if !active {
				continue
			}
			at, err := time.ParseInLocation(model.SlotLayout, dateKey+" "+timeKey, now.Location())
			if err != nil {
				continue
			}
			if at.Before(now) {
				continue
			}
			keys = append(keys, timeKey)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if !yield(k) {
				return
			}
		}
	}
}

func (c *Calendar) today() time.Time {
	now := c.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (c *Calendar) allElapsed(day map[string]bool, now time.Time) bool {
	if len(day) == 0 {
		return false
	}
	todayKey := now.Format(model.DateLayout)
	for timeKey := range day {
		at, err := time.ParseInLocation(model.SlotLayout, todayKey+" "+timeKey, now.Location())
		if err != nil {
			continue
		}
		if !at.Before(now) {
			return false
		}
	}
	return true
}

func isBusinessDay(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func nextBusinessDay(d time.Time) time.Time {
	next := d.AddDate(0, 0, 1)
	for !isBusinessDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func latestDate(slots map[string]map[string]bool, loc *time.Location) (time.Time, bool) {
	var latest time.Time
	found := false
	for dateKey := range slots {
		d, err := time.ParseInLocation(model.DateLayout, dateKey, loc)
		if err != nil {
			continue
		}
		if !found || d.After(latest) {
			latest = d
			found = true
		}
	}
	return latest, found
}
