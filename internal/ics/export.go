package ics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"mitra/internal/events"
	"mitra/internal/jalali"
)

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:mitra:events"))

// EventUID is the stable UID of an exported event: the same event on the
// same date always gets the same UID, so re-importing a year updates the
// entries instead of duplicating them.
func EventUID(d jalali.Date, title string) string {
	return uuid.NewSHA1(uidNamespace, []byte(d.String()+"/"+title)).String()
}

// Export writes the solar events of the Persian year as an iCalendar
// document: one all-day VEVENT per event, dated in the Gregorian calendar.
// Holidays are OPAQUE, other events TRANSPARENT. stamp is used as DTSTAMP.
func Export(w io.Writer, tbl *events.Table, year int, stamp time.Time) error {
	if year < jalali.MinYear || year > jalali.MaxYear {
		return fmt.Errorf("ics: export year %d: %w", year, jalali.ErrInvalidDate)
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//mitra//Persian calendar//FA")
	cal.SetXWRCalName("Persian calendar " + strconv.Itoa(year))

	for month := 1; month <= 12; month++ {
		for _, e := range tbl.InMonth(month) {
			d, err := jalali.NewDate(year, e.Month, e.Day)
			if err != nil {
				// Esfand 30 in a common year.
				continue
			}
			g, err := d.ToGregorian()
			if err != nil {
				return fmt.Errorf("ics: export %v: %w", d, err)
			}
			ve := cal.AddEvent(EventUID(d, e.Title))
			ve.SetDtStampTime(stamp.UTC())
			ve.SetAllDayStartAt(g)
			ve.SetAllDayEndAt(g.AddDate(0, 0, 1))
			ve.SetSummary(e.Title)
			ve.SetDescription(d.Format(jalali.StyleLong))
			if e.Type != "" {
				ve.SetProperty(ical.ComponentPropertyCategories, e.Type)
			}
			transp := "TRANSPARENT"
			if e.Holiday {
				transp = "OPAQUE"
			}
			ve.SetProperty(ical.ComponentPropertyTransp, transp)
		}
	}
	_, err := io.WriteString(w, cal.Serialize())
	return err
}
