package ics

import (
	"context"
	"errors"
	"sync"
	"time"

	"mitra/internal/jalali"
	appLog "mitra/internal/log"
	"mitra/internal/model"
)

// DefaultTTL is how long fetched feeds are reused before Occurrences
// refreshes them on its own.
const DefaultTTL = 10 * time.Minute

// Agenda keeps the parsed entries of all subscribed feeds and answers
// "what is on in the next N days" queries. It is safe for concurrent use.
type Agenda struct {
	fetcher *Fetcher
	sources []Source
	loc     *time.Location
	ttl     time.Duration
	now     func() time.Time

	// refreshing serializes TTL refreshes so concurrent readers of a
	// stale agenda fetch the feeds once.
	refreshing sync.Mutex

	mu        sync.Mutex
	entries   []Entry
	refreshed time.Time
}

// NewAgenda returns an Agenda over sources whose occurrences are shown in
// loc.
func NewAgenda(f *Fetcher, sources []Source, loc *time.Location) *Agenda {
	if loc == nil {
		loc = time.Local
	}
	return &Agenda{fetcher: f, sources: sources, loc: loc, ttl: DefaultTTL, now: time.Now}
}

// Sources returns the feeds the agenda reads.
func (a *Agenda) Sources() []Source { return a.sources }

// Refresh fetches and parses every feed. Feeds that fail keep no entries;
// their errors are joined into the result. The entries are replaced even
// when some feeds failed.
func (a *Agenda) Refresh(ctx context.Context) error {
	results, errs := a.fetcher.FetchAll(ctx, a.sources)
	var entries []Entry
	for _, res := range results {
		parsed, err := Parse(res.Source, res.Body)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, parsed...)
	}

	a.mu.Lock()
	a.entries = entries
	a.refreshed = a.now()
	a.mu.Unlock()

	appLog.Info("agenda refreshed", "sources", len(a.sources), "entries", len(entries), "errors", len(errs))
	return errors.Join(errs...)
}

// Occurrences returns the occurrences in the days Persian calendar days
// starting at from. Feeds older than the TTL are refreshed first; a failed
// refresh is logged and the previous entries are used.
func (a *Agenda) Occurrences(ctx context.Context, from jalali.Date, days int) ([]model.Occurrence, error) {
	if a.stale() {
		a.refreshing.Lock()
		// Another caller may have refreshed while we waited.
		if a.stale() {
			if err := a.Refresh(ctx); err != nil {
				appLog.Error("agenda refresh incomplete", err)
			}
		}
		a.refreshing.Unlock()
	}

	w, err := WindowForDays(from, days, a.loc)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	entries := a.entries
	a.mu.Unlock()
	return Expand(entries, w)
}

func (a *Agenda) stale() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.refreshed.IsZero() || a.now().Sub(a.refreshed) > a.ttl
}
