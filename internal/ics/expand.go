package ics

import (
	"errors"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"mitra/internal/jalali"
	appLog "mitra/internal/log"
	"mitra/internal/model"
)

const defaultMaxPerEvent = 5000

// Window selects the occurrences Expand produces.
type Window struct {
	// Start and End bound the occurrences, inclusive.
	Start, End time.Time
	// Location is the display zone of the occurrences; nil means time.Local.
	Location *time.Location
	// MaxPerEvent caps the instances of one recurring event; zero means
	// defaultMaxPerEvent.
	MaxPerEvent int
}

// WindowForDays returns the window covering days Persian calendar days
// starting at from, in loc.
func WindowForDays(from jalali.Date, days int, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}
	if days < 1 {
		days = 1
	}
	g, err := from.ToGregorian()
	if err != nil {
		return Window{}, err
	}
	start := time.Date(g.Year(), g.Month(), g.Day(), 0, 0, 0, 0, loc)
	return Window{
		Start:    start,
		End:      start.AddDate(0, 0, days).Add(-time.Nanosecond),
		Location: loc,
	}, nil
}

// Expand turns entries into concrete occurrences inside w, sorted by start.
// It applies RRULE, EXDATE and RECURRENCE-ID overrides; an all-day instance
// spans its whole day. Event ends are exclusive, as DTEND is.
func Expand(entries []Entry, w Window) ([]model.Occurrence, error) {
	if w.End.Before(w.Start) {
		return nil, errors.New("ics: window ends before it starts")
	}
	if w.Location == nil {
		w.Location = time.Local
	}
	if w.MaxPerEvent <= 0 {
		w.MaxPerEvent = defaultMaxPerEvent
	}

	bases := make(map[string][]Entry)
	overrides := make(map[string][]Entry)
	var order []string
	for _, e := range entries {
		if e.RecurrenceID != nil {
			overrides[e.UID] = append(overrides[e.UID], e)
			continue
		}
		if _, seen := bases[e.UID]; !seen {
			order = append(order, e.UID)
		}
		bases[e.UID] = append(bases[e.UID], e)
	}

	var out []model.Occurrence
	for _, uid := range order {
		for _, e := range bases[uid] {
			occ, capped := expandEntry(e, overrides[uid], w)
			if capped {
				appLog.Error("ics expand truncated", errors.New("max occurrences reached"), "uid", uid, "cap", w.MaxPerEvent)
			}
			out = append(out, occ...)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func expandEntry(e Entry, overrides []Entry, w Window) ([]model.Occurrence, bool) {
	if e.RRule == "" {
		inst := withOverride(e, overrides, e.Start)
		if !overlaps(inst.Start, inst.End, w.Start, w.End) {
			return nil, false
		}
		return []model.Occurrence{occurrence(inst, w.Location)}, false
	}

	opt, err := rrule.StrToROption(e.RRule)
	if err != nil {
		appLog.Error("ics RRULE rejected", err, "uid", e.UID, "rrule", e.RRule)
		return nil, false
	}
	opt.Dtstart = e.Start
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		appLog.Error("ics RRULE rejected", err, "uid", e.UID, "rrule", e.RRule)
		return nil, false
	}
	var set rrule.Set
	set.RRule(r)
	for _, ex := range e.ExDates {
		set.ExDate(ex.In(e.Start.Location()))
	}

	dur := e.End.Sub(e.Start)
	// Widen the lower bound by the duration so instances that started
	// before the window but are still running are included.
	starts := set.Between(w.Start.Add(-dur).In(e.Start.Location()), w.End.In(e.Start.Location()), true)
	capped := len(starts) > w.MaxPerEvent
	if capped {
		starts = starts[:w.MaxPerEvent]
	}

	out := make([]model.Occurrence, 0, len(starts))
	expanded := make(map[int64]bool, len(starts))
	for _, s := range starts {
		expanded[s.Unix()] = true
		inst := e
		inst.Start, inst.End = s, s.Add(dur)
		inst = withOverride(inst, overrides, s)
		if !overlaps(inst.Start, inst.End, w.Start, w.End) {
			continue
		}
		out = append(out, occurrence(inst, w.Location))
	}

	// Overrides that move an instance from outside the window into it.
	for _, o := range overrides {
		if o.RecurrenceID == nil || expanded[o.RecurrenceID.Unix()] {
			continue
		}
		if !overlaps(o.Start, o.End, w.Start, w.End) {
			continue
		}
		rid := o.RecurrenceID.In(e.Start.Location())
		if len(set.Between(rid, rid, true)) == 0 {
			continue
		}
		out = append(out, occurrence(o, w.Location))
	}
	return out, capped
}

// withOverride returns the override replacing the instance starting at
// start, or inst itself.
func withOverride(inst Entry, overrides []Entry, start time.Time) Entry {
	for _, o := range overrides {
		if o.RecurrenceID != nil && o.RecurrenceID.Equal(start) {
			return o
		}
	}
	return inst
}

func occurrence(e Entry, loc *time.Location) model.Occurrence {
	start, end := e.Start.In(loc), e.End.In(loc)
	if e.AllDay {
		// All-day dates are floating; keep the calendar day, not the instant.
		start = time.Date(e.Start.Year(), e.Start.Month(), e.Start.Day(), 0, 0, 0, 0, loc)
		end = time.Date(e.End.Year(), e.End.Month(), e.End.Day(), 0, 0, 0, 0, loc)
	}
	occ := model.Occurrence{
		SourceID:    e.Source.ID,
		UID:         e.UID,
		InstanceKey: start.Format(time.RFC3339),
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		AllDay:      e.AllDay,
		Start:       start,
		End:         end,
	}
	if d, err := jalali.DateFromGregorian(start); err == nil {
		occ.PersianStart = d
	}
	return occ
}

// overlaps reports whether the event [aStart, aEnd) touches the window
// [bStart, bEnd]. An event without duration is a single instant.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aEnd.After(aStart) {
		return !aStart.Before(bStart) && !aStart.After(bEnd)
	}
	return aEnd.After(bStart) && !aStart.After(bEnd)
}
