// Package events holds the table of Persian calendar holidays and
// observances and answers date lookups against it.
package events

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"mitra/internal/jalali"
	"mitra/internal/log"
	"mitra/internal/model"
)

//go:embed events.yaml
var builtinData []byte

// Indicator runes returned by Table.Indicator.
const (
	HolidayIndicator = '*'
	EventIndicator   = '+'
)

type fileFormat struct {
	Persian []model.Event `yaml:"persian_calendar"`
}

type monthDay struct{ month, day int }

// Table is an immutable, indexed set of events.
type Table struct {
	all   []model.Event
	byDay map[monthDay][]model.Event
}

// Parse decodes a YAML event file. Solar events must name a month and a
// day that exist in some year; lunar events are kept but not indexed.
func Parse(data []byte) (*Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("events: parse: %w", err)
	}
	t := &Table{all: f.Persian, byDay: make(map[monthDay][]model.Event)}
	for i, e := range f.Persian {
		if e.IsHijri() {
			continue
		}
		// Day 30 of Esfand exists in leap years only, so check against one.
		if jalali.DaysInMonth(1403, e.Month) < e.Day || e.Day < 1 {
			return nil, fmt.Errorf("events: entry %d (%q): no day %d/%d in the calendar", i, e.Title, e.Month, e.Day)
		}
		k := monthDay{e.Month, e.Day}
		t.byDay[k] = append(t.byDay[k], e)
	}
	return t, nil
}

// ForDate returns the events on the given month and day, or nil.
func (t *Table) ForDate(month, day int) []model.Event {
	evs := t.byDay[monthDay{month, day}]
	if len(evs) == 0 {
		return nil
	}
	out := make([]model.Event, len(evs))
	copy(out, evs)
	return out
}

// Indicator returns HolidayIndicator if any event on the day is a
// holiday, EventIndicator if there are only other events, and 0 otherwise.
func (t *Table) Indicator(month, day int) rune {
	evs := t.byDay[monthDay{month, day}]
	if len(evs) == 0 {
		return 0
	}
	for _, e := range evs {
		if e.Holiday {
			return HolidayIndicator
		}
	}
	return EventIndicator
}

// IsHoliday reports whether any event on the day is a holiday.
func (t *Table) IsHoliday(month, day int) bool {
	return t.Indicator(month, day) == HolidayIndicator
}

// InMonth returns the solar events of month ordered by day.
func (t *Table) InMonth(month int) []model.Event {
	var out []model.Event
	for day := 1; day <= 31; day++ {
		out = append(out, t.byDay[monthDay{month, day}]...)
	}
	return out
}

// Lunar returns the events dated in the Hijri calendar.
func (t *Table) Lunar() []model.Event {
	var out []model.Event
	for _, e := range t.all {
		if e.IsHijri() {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of events in the table, lunar ones included.
func (t *Table) Len() int { return len(t.all) }

var (
	builtin = sync.OnceValues(func() (*Table, error) {
		return Parse(builtinData)
	})

	mu       sync.RWMutex
	override *Table
)

// Default returns the table used by the package-level functions: the one
// installed by Load, or the built-in table.
func Default() *Table {
	mu.RLock()
	t := override
	mu.RUnlock()
	if t != nil {
		return t
	}
	t, err := builtin()
	if err != nil {
		log.Error("events: built-in table is broken", err)
		return &Table{byDay: map[monthDay][]model.Event{}}
	}
	return t
}

// Load replaces the built-in table with the events in path.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return err
	}
	mu.Lock()
	override = t
	mu.Unlock()
	log.Info("events: loaded table", "path", path, "events", t.Len())
	return nil
}

// ForDate returns the events on the given Persian date, or nil. Events
// repeat every year, so year only has to be a valid year.
func ForDate(year, month, day int) []model.Event {
	if _, err := jalali.NewDate(year, month, day); err != nil {
		return nil
	}
	return Default().ForDate(month, day)
}

// Indicator is Default().Indicator.
func Indicator(month, day int) rune { return Default().Indicator(month, day) }

// InMonth is Default().InMonth.
func InMonth(month int) []model.Event { return Default().InMonth(month) }
