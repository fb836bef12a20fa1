package ics

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/go-cmp/cmp"

	"mitra/internal/events"
	"mitra/internal/jalali"
)

var feed = strings.Join([]string{
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//test//EN",
	"BEGIN:VEVENT",
	"UID:single@test",
	"DTSTAMP:20240101T000000Z",
	"DTSTART:20240320T090000Z",
	"DTEND:20240320T100000Z",
	"SUMMARY:Nowruz call",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:weekly@test",
	"DTSTAMP:20240101T000000Z",
	"DTSTART:20240318T080000Z",
	"DTEND:20240318T083000Z",
	"RRULE:FREQ=WEEKLY;COUNT=4",
	"EXDATE:20240325T080000Z",
	"SUMMARY:Standup",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:weekly@test",
	"DTSTAMP:20240101T000000Z",
	"RECURRENCE-ID:20240401T080000Z",
	"DTSTART:20240401T100000Z",
	"DTEND:20240401T103000Z",
	"SUMMARY:Standup (moved)",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:allday@test",
	"DTSTAMP:20240101T000000Z",
	"DTSTART;VALUE=DATE:20240321",
	"DTEND;VALUE=DATE:20240322",
	"SUMMARY:Day off",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"DTSTART:20240321T090000Z",
	"SUMMARY:no uid",
	"END:VEVENT",
	"END:VCALENDAR",
	"",
}, "\r\n")

func TestParseAndExpand(t *testing.T) {
	src := Source{ID: "work", URL: "https://example.com/secret.ics"}
	entries, err := Parse(src, []byte(feed))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("Parse returned %d entries; want 4 (the event without UID is skipped)", len(entries))
	}

	w, err := WindowForDays(jalali.MustDate(1403, 1, 1), 30, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	occ, err := Expand(entries, w)
	if err != nil {
		t.Fatal(err)
	}

	type row struct {
		Summary string
		Start   string
		Persian string
		AllDay  bool
	}
	var got []row
	for _, o := range occ {
		got = append(got, row{o.Summary, o.Start.Format(time.RFC3339), o.PersianStart.String(), o.AllDay})
		if o.SourceID != "work" {
			t.Errorf("%s: SourceID = %q", o.Summary, o.SourceID)
		}
	}
	want := []row{
		{"Nowruz call", "2024-03-20T09:00:00Z", "1403/01/01", false},
		{"Day off", "2024-03-21T00:00:00Z", "1403/01/02", true},
		{"Standup (moved)", "2024-04-01T10:00:00Z", "1403/01/13", false},
		{"Standup", "2024-04-08T08:00:00Z", "1403/01/20", false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand (-want +got):\n%s", diff)
	}
}

var edgeFeed = strings.Join([]string{
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//test//EN",
	"BEGIN:VEVENT",
	"UID:yesterday@test",
	"DTSTAMP:20240101T000000Z",
	"DTSTART;VALUE=DATE:20240319",
	"DTEND;VALUE=DATE:20240320",
	"SUMMARY:yesterday",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:late@test",
	"DTSTAMP:20240101T000000Z",
	"DTSTART:20240319T230000Z",
	"DTEND:20240320T000000Z",
	"SUMMARY:ends at midnight",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:daily@test",
	"DTSTAMP:20240101T000000Z",
	"DTSTART:20240318T080000Z",
	"DTEND:20240318T083000Z",
	"RRULE:FREQ=DAILY;COUNT=5",
	"SUMMARY:Daily",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:daily@test",
	"DTSTAMP:20240101T000000Z",
	"RECURRENCE-ID:20240320T080000Z",
	"DTSTART:20240321T080000Z",
	"DTEND:20240321T083000Z",
	"SUMMARY:Daily (moved out)",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:daily@test",
	"DTSTAMP:20240101T000000Z",
	"RECURRENCE-ID:20240322T080000Z",
	"DTSTART:20240320T150000Z",
	"DTEND:20240320T153000Z",
	"SUMMARY:Daily (moved in)",
	"END:VEVENT",
	"END:VCALENDAR",
	"",
}, "\r\n")

func TestExpandWindowEdges(t *testing.T) {
	entries, err := Parse(Source{ID: "edge"}, []byte(edgeFeed))
	if err != nil {
		t.Fatal(err)
	}
	w, err := WindowForDays(jalali.MustDate(1403, 1, 1), 1, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	occ, err := Expand(entries, w)
	if err != nil {
		t.Fatal(err)
	}

	type row struct{ Summary, Start string }
	var got []row
	for _, o := range occ {
		got = append(got, row{o.Summary, o.Start.Format(time.RFC3339)})
	}
	// Events ending exactly at the window start belong to the day before;
	// overrides count where they were moved to.
	want := []row{{"Daily (moved in)", "2024-03-20T15:00:00Z"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand (-want +got):\n%s", diff)
	}
}

func TestExpandRejectsInvertedWindow(t *testing.T) {
	now := time.Now()
	if _, err := Expand(nil, Window{Start: now, End: now.Add(-time.Hour)}); err == nil {
		t.Error("Expand accepted a window ending before it starts")
	}
}

func TestFetchUsesValidatorsAndCache(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` && status.Load() == http.StatusOK {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		if s := int(status.Load()); s != http.StatusOK {
			w.WriteHeader(s)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), srv.Client())
	src := Source{ID: "feed", URL: srv.URL + "/cal.ics"}
	ctx := context.Background()

	first, err := f.FetchOne(ctx, src)
	if err != nil || first.FromCache || string(first.Body) != feed {
		t.Fatalf("first fetch = %+v, %v", first.FromCache, err)
	}
	second, err := f.FetchOne(ctx, src)
	if err != nil || !second.FromCache || string(second.Body) != feed {
		t.Fatalf("conditional fetch = %+v, %v; want cached body", second.FromCache, err)
	}
	status.Store(http.StatusInternalServerError)
	third, err := f.FetchOne(ctx, src)
	if err != nil || !third.FromCache {
		t.Fatalf("fetch during outage = %+v, %v; want cached body", third.FromCache, err)
	}

	fresh := NewFetcher(t.TempDir(), srv.Client())
	if _, err := fresh.FetchOne(ctx, src); err == nil {
		t.Error("fetch during outage without a cache succeeded")
	}
}

func TestAgendaRefreshesOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	a := NewAgenda(NewFetcher(t.TempDir(), srv.Client()), []Source{{ID: "a", URL: srv.URL}}, time.UTC)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		occ, err := a.Occurrences(ctx, jalali.MustDate(1403, 1, 1), 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(occ) != 2 {
			t.Errorf("Occurrences over 2 days = %d; want 2", len(occ))
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("feed fetched %d times; want 1 within the TTL", n)
	}
}

func TestAgendaConcurrentRefresh(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(20 * time.Millisecond)
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	a := NewAgenda(NewFetcher(t.TempDir(), srv.Client()), []Source{{ID: "a", URL: srv.URL}}, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := a.Occurrences(context.Background(), jalali.MustDate(1403, 1, 1), 2); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if n := hits.Load(); n != 1 {
		t.Errorf("feed fetched %d times by concurrent readers; want 1", n)
	}
}

func TestRedactURL(t *testing.T) {
	tests := map[string]string{
		"https://calendar.example.com/private/abc123/basic.ics?token=x": "https://calendar.example.com/...(redacted)",
		"http://host:8080/a.ics": "http://host:8080/...(redacted)",
		"not a url":              "ics://...(redacted)",
	}
	for in, want := range tests {
		if got := redactURL(in); got != want {
			t.Errorf("redactURL(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestExport(t *testing.T) {
	tbl, err := events.Parse([]byte(`persian_calendar:
  - {holiday: true, month: 1, day: 1, type: Iran, title: "نوروز"}
  - {holiday: false, month: 2, day: 12, type: Iran, title: "روز معلم"}
  - {holiday: true, month: 12, day: 30, type: Iran, title: "leap day"}
  - {holiday: true, hijri_month: 1, hijri_day: 10, type: Islamic Iran, title: "عاشورا"}
`))
	if err != nil {
		t.Fatal(err)
	}
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := Export(&buf, tbl, 1404, stamp); err != nil {
		t.Fatal(err)
	}
	cal, err := ical.ParseCalendar(&buf)
	if err != nil {
		t.Fatalf("exported calendar does not parse: %v", err)
	}

	type row struct{ UID, Start, Summary, Transp, Categories string }
	var got []row
	for _, ve := range cal.Events() {
		got = append(got, row{
			UID:        ve.Id(),
			Start:      ve.GetProperty(ical.ComponentPropertyDtStart).Value,
			Summary:    ve.GetProperty(ical.ComponentPropertySummary).Value,
			Transp:     ve.GetProperty(ical.ComponentPropertyTransp).Value,
			Categories: ve.GetProperty(ical.ComponentPropertyCategories).Value,
		})
	}
	want := []row{
		{EventUID(jalali.MustDate(1404, 1, 1), "نوروز"), "20250321", "نوروز", "OPAQUE", "Iran"},
		{EventUID(jalali.MustDate(1404, 2, 12), "روز معلم"), "20250502", "روز معلم", "TRANSPARENT", "Iran"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("exported events (-want +got):\n%s", diff)
	}

	if EventUID(jalali.MustDate(1404, 1, 1), "نوروز") == EventUID(jalali.MustDate(1405, 1, 1), "نوروز") {
		t.Error("UIDs of different years collide")
	}
	if err := Export(&buf, tbl, 0, stamp); err == nil {
		t.Error("Export(year 0) succeeded")
	}
}
