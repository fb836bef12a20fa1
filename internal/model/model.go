package model

import (
	"time"

	"mitra/internal/jalali"
)

// Event is an entry of the built-in Persian calendar event table: a
// holiday, anniversary or observance on a fixed solar month and day.
//
// Events tied to the lunar (Hijri) calendar carry HijriMonth/HijriDay
// instead; they move every solar year and are not indexed by date.
type Event struct {
	Holiday bool   `yaml:"holiday" json:"holiday"`
	Month   int    `yaml:"month" json:"month"`
	Day     int    `yaml:"day" json:"day"`
	Type    string `yaml:"type" json:"type"`
	Title   string `yaml:"title" json:"title"`

	HijriMonth *int `yaml:"hijri_month,omitempty" json:"hijri_month,omitempty"`
	HijriDay   *int `yaml:"hijri_day,omitempty" json:"hijri_day,omitempty"`
}

// IsHijri reports whether the event is dated in the lunar calendar.
func (e Event) IsHijri() bool {
	return e.HijriMonth != nil || e.HijriDay != nil
}

// Occurrence represents a single concrete instance of a subscribed ICS
// event (after recurrence expansion and timezone normalization).
type Occurrence struct {
	SourceID string `json:"source_id"` // calendar source ID
	UID      string `json:"uid"`       // iCalendar UID

	// InstanceKey uniquely identifies a single occurrence of a recurring
	// event, typically derived from the local start time.
	InstanceKey string `json:"instance_key"`

	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	AllDay bool `json:"all_day"`

	// Start / End are in the configured display timezone.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// PersianStart is the Persian calendar date of Start's wall clock.
	PersianStart jalali.Date `json:"persian_start"`
}
