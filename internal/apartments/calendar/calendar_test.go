package calendar

import (
	"errors"
	"testing"
	"time"

	"domus/pkg/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Friday 2025-01-10 12:00 UTC
var friday = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func TestGenerateWindowSkipsWeekends(t *testing.T) {
	cal := New(5, 8, fixedClock(friday))
	slots := map[string]map[string]bool{}

	cal.GenerateWindow(slots, 5)

	want := []string{"2025-01-10", "2025-01-13", "2025-01-14", "2025-01-15", "2025-01-16"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(slots))
	}
	for _, key := range want {
		day, ok := slots[key]
		if !ok {
			t.Errorf("expected day %s in window", key)
			continue
		}
		if len(day) != 0 {
			t.Errorf("expected empty set for %s, got %d slots", key, len(day))
		}
		if !model.IsBusinessDay(key) {
			t.Errorf("window contains non-business day %s", key)
		}
	}
}

func TestGenerateWindowAppendsDisjoint(t *testing.T) {
	cal := New(5, 8, fixedClock(friday))
	slots := map[string]map[string]bool{}

	cal.GenerateWindow(slots, 5)
	cal.GenerateWindow(slots, 5)

	if len(slots) != 10 {
		t.Fatalf("expected 10 days after two windows, got %d", len(slots))
	}
	for _, key := range []string{"2025-01-17", "2025-01-20", "2025-01-21", "2025-01-22", "2025-01-23"} {
		if _, ok := slots[key]; !ok {
			t.Errorf("expected second window to contain %s", key)
		}
	}
}

func TestTemplateCapAndDuplicates(t *testing.T) {
	cal := New(5, 8, fixedClock(friday))
	tpl := cal.NewTemplate()

	times := []string{"08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00"}
	for _, tm := range times {
		if err := tpl.Add(tm); err != nil {
			t.Fatalf("unexpected error adding %s: %v", tm, err)
		}
	}

	if err := tpl.Add("16:00"); !errors.Is(err, ErrTemplateFull) {
		t.Errorf("expected ErrTemplateFull for ninth slot, got %v", err)
	}
	if got := len(tpl.Times()); got != 8 {
		t.Errorf("expected template size 8 after rejection, got %d", got)
	}
}

func TestTemplateRejectsDuplicate(t *testing.T) {
	cal := New(5, 8, fixedClock(friday))
	tpl := cal.NewTemplate()

	if err := tpl.Add("10:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tpl.Add("10:00"); !errors.Is(err, ErrDuplicateSlot) {
		t.Errorf("expected ErrDuplicateSlot, got %v", err)
	}
	if err := tpl.Add("25:00"); !errors.Is(err, ErrInvalidTimeKey) {
		t.Errorf("expected ErrInvalidTimeKey, got %v", err)
	}
}

func TestApplyTemplateReplacesAllDays(t *testing.T) {
	cal := New(5, 8, fixedClock(friday))
	slots := map[string]map[string]bool{
		"2025-01-10": {"07:00": false},
		"2025-01-13": {"19:00": true},
	}

	tpl := cal.NewTemplate()
	for _, tm := range []string{"10:00", "14:00"} {
		if err := tpl.Add(tm); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	cal.ApplyTemplate(slots, tpl)

	for dateKey, day := range slots {
		if len(day) != 2 {
			t.Errorf("day %s: expected 2 slots, got %d", dateKey, len(day))
		}
		for timeKey, active := range day {
			if !active {
				t.Errorf("day %s slot %s: expected active after template apply", dateKey, timeKey)
			}
		}
		if _, ok := day["07:00"]; ok {
			t.Errorf("day %s: prior slot survived template apply", dateKey)
		}
	}
}

func TestAdvanceDayDeactivatesElapsedTimes(t *testing.T) {
	cal := New(5, 8, fixedClock(friday)) // 12:00
	slots := map[string]map[string]bool{
		"2025-01-10": {"09:00": true, "11:00": true, "15:00": true},
	}

	cal.AdvanceDay(slots)

	day := slots["2025-01-10"]
	if day == nil {
		t.Fatal("expected today to survive while slots remain upcoming")
	}
	if day["09:00"] || day["11:00"] {
		t.Error("expected elapsed slots to be deactivated")
	}
	if !day["15:00"] {
		t.Error("expected future slot to stay active")
	}
}

func TestAdvanceDayRelocatesElapsedDayAcrossWeekend(t *testing.T) {
	// Friday 23:30, every slot elapsed
	late := time.Date(2025, 1, 10, 23, 30, 0, 0, time.UTC)
	cal := New(5, 8, fixedClock(late))
	slots := map[string]map[string]bool{
		"2025-01-10": {"09:00": true, "11:00": false},
	}

	cal.AdvanceDay(slots)

	if _, ok := slots["2025-01-10"]; ok {
		t.Error("expected elapsed day to be removed")
	}
	moved, ok := slots["2025-01-13"]
	if !ok {
		t.Fatal("expected slots to move to Monday, skipping the weekend")
	}
	if !moved["09:00"] {
		t.Error("expected active flag preserved for 09:00")
	}
	if moved["11:00"] {
		t.Error("expected inactive flag preserved for 11:00")
	}
}

func TestRemoveSlotDropsEmptyDay(t *testing.T) {
	cal := New(5, 8, fixedClock(friday))
	slots := map[string]map[string]bool{
		"2025-01-13": {"10:00": true},
	}

	if err := cal.RemoveSlot(slots, "2025-01-13", "10:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := slots["2025-01-13"]; ok {
		t.Error("expected empty day to be dropped")
	}

	if err := cal.RemoveSlot(slots, "2025-01-13", "10:00"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestActiveFutureSlotsFiltersAndSorts(t *testing.T) {
	cal := New(5, 8, fixedClock(friday)) // 12:00
	slots := map[string]map[string]bool{
		"2025-01-10": {
			"09:00": true,  // past
			"13:00": false, // inactive
			"16:00": true,
			"14:00": true,
		},
	}

	var got []string
	for tm := range cal.ActiveFutureSlots(slots, "2025-01-10") {
		got = append(got, tm)
	}

	want := []string{"14:00", "16:00"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestActiveFutureSlotsRestartable(t *testing.T) {
	cal := New(5, 8, fixedClock(friday))
	slots := map[string]map[string]bool{
		"2025-01-13": {"10:00": true, "11:00": true},
	}

	seq := cal.ActiveFutureSlots(slots, "2025-01-13")

	first := 0
	for range seq {
		first++
		break // early exit
	}
	second := 0
	for range seq {
		second++
	}

	if first != 1 {
		t.Fatalf("expected early exit after 1 element, got %d", first)
	}
	if second != 2 {
		t.Errorf("expected full restart to yield 2 elements, got %d", second)
	}
}

func TestSetSlotActiveToggleBoundary(t *testing.T) {
	cal := New(5, 8, fixedClock(friday)) // 12:00
	slots := map[string]map[string]bool{
		"2025-01-10": {"09:00": true, "15:00": true},
	}

	if err := cal.SetSlotActive(slots, "2025-01-10", "09:00", false); err != nil {
		t.Fatalf("deactivating a past slot should succeed, got %v", err)
	}
	if err := cal.SetSlotActive(slots, "2025-01-10", "09:00", true); !errors.Is(err, ErrPastSlotActivation) {
		t.Errorf("expected ErrPastSlotActivation, got %v", err)
	}
	if err := cal.SetSlotActive(slots, "2025-01-10", "15:00", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cal.SetSlotActive(slots, "2025-01-10", "15:00", true); err != nil {
		t.Errorf("future slot should be reactivatable, got %v", err)
	}
	if err := cal.SetSlotActive(slots, "2025-01-10", "20:00", true); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestSlotKeyFormatRejected(t *testing.T) {
	cal := New(5, 8, fixedClock(friday))
	slots := map[string]map[string]bool{
		"2025-01-13": {"10:00": true},
	}

	if err := cal.RemoveSlot(slots, "13/01/2025", "10:00"); !errors.Is(err, ErrInvalidDateKey) {
		t.Errorf("expected ErrInvalidDateKey, got %v", err)
	}
	if err := cal.RemoveSlot(slots, "2025-01-13", "10am"); !errors.Is(err, ErrInvalidTimeKey) {
		t.Errorf("expected ErrInvalidTimeKey, got %v", err)
	}
	if err := cal.SetSlotActive(slots, "not-a-date", "10:00", false); !errors.Is(err, ErrInvalidDateKey) {
		t.Errorf("expected ErrInvalidDateKey, got %v", err)
	}
	if err := cal.SetSlotActive(slots, "2025-01-13", "25:00", true); !errors.Is(err, ErrInvalidTimeKey) {
		t.Errorf("expected ErrInvalidTimeKey, got %v", err)
	}

	if _, ok := slots["2025-01-13"]["10:00"]; !ok {
		t.Error("expected slot to survive rejected operations")
	}
}
