package jalali

import "strings"

// A Weekday is a day of the Persian week. Saturday (Shanbeh) is day 0.
type Weekday int

const (
	Shanbeh Weekday = iota
	Yekshanbeh
	Doshanbeh
	Seshanbeh
	Chaharshanbeh
	Panjshanbeh
	Jomeh
)

var weekdayNames = [7]string{
	"شنبه",
	"یکشنبه",
	"دوشنبه",
	"سه‌شنبه",
	"چهارشنبه",
	"پنجشنبه",
	"جمعه",
}

var monthNames = [12]string{
	"فروردین",
	"اردیبهشت",
	"خرداد",
	"تیر",
	"مرداد",
	"شهریور",
	"مهر",
	"آبان",
	"آذر",
	"دی",
	"بهمن",
	"اسفند",
}

// String returns the Persian name of the weekday, like "شنبه".
func (w Weekday) String() string {
	if w < Shanbeh || w > Jomeh {
		return ""
	}
	return weekdayNames[w]
}

// WeekdayNames returns the Persian weekday names starting from Saturday.
func WeekdayNames() [7]string { return weekdayNames }

// MonthNames returns the Persian month names starting from Farvardin.
func MonthNames() [12]string { return monthNames }

// MonthName returns the Persian name of month, or "" if month is outside
// [1, 12].
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// matchMonthName returns the month whose name is the longest prefix of s,
// and the length of that name in bytes.
func matchMonthName(s string) (month, n int) {
	for i, name := range monthNames {
		if len(name) > n && strings.HasPrefix(s, name) {
			month, n = i+1, len(name)
		}
	}
	return month, n
}
