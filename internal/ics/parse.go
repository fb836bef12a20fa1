package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "mitra/internal/log"
)

// Entry is a VEVENT read from a feed, before recurrence expansion.
type Entry struct {
	Source Source

	UID string
	Seq int

	Summary     string
	Description string
	Location    string

	Start  time.Time
	End    time.Time
	AllDay bool

	RRule   string
	ExDates []time.Time
	// RecurrenceID is set on an entry that replaces one instance of a
	// recurring event.
	RecurrenceID *time.Time
}

// Parse reads the VEVENTs of an ICS payload. Events that cannot be read
// are logged and skipped.
func Parse(src Source, body []byte) ([]Entry, error) {
	if len(body) == 0 {
		return nil, errors.New("ics: empty body")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse %s: %w", src.ID, err)
	}

	var entries []Entry
	for _, ve := range cal.Events() {
		e, err := parseVEvent(src, ve)
		if err != nil {
			appLog.Error("ics vevent skipped", err, "id", src.ID, "url", redactURL(src.URL))
			continue
		}
		entries = append(entries, e)
	}
	appLog.Debug("ics parse completed", "id", src.ID, "events", len(entries))
	return entries, nil
}

func propValue(ve *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ve.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}

func param(prop *ical.IANAProperty, name string) string {
	if prop == nil || prop.ICalParameters == nil {
		return ""
	}
	if vs := prop.ICalParameters[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func parseVEvent(src Source, ve *ical.VEvent) (Entry, error) {
	e := Entry{
		Source:      src,
		UID:         propValue(ve, ical.ComponentPropertyUniqueId),
		Summary:     propValue(ve, ical.ComponentPropertySummary),
		Description: propValue(ve, ical.ComponentPropertyDescription),
		Location:    propValue(ve, ical.ComponentPropertyLocation),
		RRule:       propValue(ve, ical.ComponentPropertyRrule),
	}
	if e.UID == "" {
		return e, errors.New("missing UID")
	}
	if n, err := strconv.Atoi(strings.TrimSpace(propValue(ve, ical.ComponentPropertySequence))); err == nil {
		e.Seq = n
	}

	dtstart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtstart == nil {
		return e, errors.New("missing DTSTART")
	}
	e.AllDay = strings.EqualFold(param(dtstart, "VALUE"), "DATE") || !strings.Contains(dtstart.Value, "T")

	var err error
	if e.AllDay {
		e.Start, err = ve.GetAllDayStartAt()
	} else {
		e.Start, err = ve.GetStartAt()
	}
	if err != nil {
		return e, fmt.Errorf("DTSTART %q: %w", dtstart.Value, err)
	}
	if e.AllDay {
		e.End, err = ve.GetAllDayEndAt()
	} else {
		e.End, err = ve.GetEndAt()
	}
	if err != nil || e.End.Before(e.Start) {
		// DTEND is optional: an all-day event lasts a day, others are instants.
		e.End = e.Start
		if e.AllDay {
			e.End = e.Start.AddDate(0, 0, 1)
		}
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, e.Start.Location()); err == nil {
				e.ExDates = append(e.ExDates, t)
			}
		}
	}
	if rid := ve.GetProperty("RECURRENCE-ID"); rid != nil {
		if t, err := parseICSTime(rid.Value, e.Start.Location()); err == nil {
			e.RecurrenceID = &t
		}
	}
	return e, nil
}

// parseICSTime reads a DATE or DATE-TIME value. Floating and date values
// are placed in loc.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	}
	return time.ParseInLocation("20060102", v, loc)
}
