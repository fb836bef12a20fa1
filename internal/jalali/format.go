package jalali

import (
	"strconv"
	"strings"
)

// Layouts for Format, ParseDate and ParseDateTime.
//
// A pattern is a sequence of literal text and %-specifiers:
//
//	%Y  4-digit year              %H  2-digit hour (00-23)
//	%m  2-digit month             %M  2-digit minute
//	%d  2-digit day of month      %S  2-digit second
//	%B  Persian month name        %T  same as %H:%M:%S
//	%A  Persian weekday name      %%  a literal percent sign
//	%j  3-digit day of year
//
// Every specifier can be formatted. %A and %j cannot be parsed: the input
// does not determine them independently of the other fields.
const (
	LayoutDate     = "%Y/%m/%d"
	LayoutDateTime = "%Y/%m/%d %H:%M:%S"
	LayoutISODate  = "%Y-%m-%d"
	LayoutISO      = "%Y-%m-%dT%T"
)

// Date style keywords accepted by Date.Format.
const (
	StyleShort = "short"
	StyleLong  = "long"
	StyleISO   = "iso"
)

// fmtOp is a single pattern operation.
type fmtOp int

const (
	opLiteral fmtOp = iota
	opYear
	opMonth
	opDay
	opMonthName
	opWeekdayName
	opOrdinal
	opHour
	opMinute
	opSecond
	opTime
	// opUnknown is a %x pair with no meaning; it is kept as its literal text.
	opUnknown
)

func (op fmtOp) isTime() bool {
	return op == opHour || op == opMinute || op == opSecond || op == opTime
}

// parsable reports whether op can be read back from its formatted text.
func (op fmtOp) parsable() bool {
	switch op {
	case opWeekdayName, opOrdinal, opUnknown:
		return false
	}
	return true
}

var specifiers = map[byte]fmtOp{
	'Y': opYear,
	'm': opMonth,
	'd': opDay,
	'B': opMonthName,
	'A': opWeekdayName,
	'j': opOrdinal,
	'H': opHour,
	'M': opMinute,
	'S': opSecond,
	'T': opTime,
}

// inst is one element of a compiled pattern. lit holds the literal text for
// opLiteral and the original specifier text for every other op.
type inst struct {
	op  fmtOp
	lit string
}

// compile splits pattern into literal runs and specifiers. "%%" becomes a
// literal "%", as does a trailing lone "%".
func compile(pattern string) []inst {
	var prog []inst
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			prog = append(prog, inst{op: opLiteral, lit: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' || i+1 == len(pattern) {
			lit.WriteByte(c)
			continue
		}
		i++
		next := pattern[i]
		if next == '%' {
			lit.WriteByte('%')
			continue
		}
		flush()
		op, ok := specifiers[next]
		if !ok {
			op = opUnknown
		}
		prog = append(prog, inst{op: op, lit: pattern[i-1 : i+1]})
	}
	flush()
	return prog
}

// HasTimeSpecifier reports whether pattern contains %H, %M, %S or %T.
// Callers use it to choose between ParseDate and ParseDateTime.
func HasTimeSpecifier(pattern string) bool {
	for _, in := range compile(pattern) {
		if in.op.isTime() {
			return true
		}
	}
	return false
}

// Format renders d according to pattern. Time specifiers and unknown
// specifiers are copied to the output unchanged. The keywords StyleShort,
// StyleLong and StyleISO select the predefined styles "1403/05/02",
// "2 مرداد 1403" and "1403-05-02".
func (d Date) Format(pattern string) string {
	switch pattern {
	case StyleShort:
		pattern = LayoutDate
	case StyleISO:
		pattern = LayoutISODate
	case StyleLong:
		return strconv.Itoa(d.day) + " " + MonthName(d.month) + " " + strconv.Itoa(d.year)
	}
	var b strings.Builder
	for _, in := range compile(pattern) {
		if in.op.isTime() {
			b.WriteString(in.lit)
			continue
		}
		appendDateOp(&b, in, d)
	}
	return b.String()
}

// Format renders dt according to pattern. Unknown specifiers are copied to
// the output unchanged.
func (dt DateTime) Format(pattern string) string {
	var b strings.Builder
	for _, in := range compile(pattern) {
		switch in.op {
		case opHour:
			pad(&b, dt.hour, 2)
		case opMinute:
			pad(&b, dt.minute, 2)
		case opSecond:
			pad(&b, dt.second, 2)
		case opTime:
			pad(&b, dt.hour, 2)
			b.WriteByte(':')
			pad(&b, dt.minute, 2)
			b.WriteByte(':')
			pad(&b, dt.second, 2)
		default:
			appendDateOp(&b, in, dt.date)
		}
	}
	return b.String()
}

func appendDateOp(b *strings.Builder, in inst, d Date) {
	switch in.op {
	case opLiteral, opUnknown:
		b.WriteString(in.lit)
	case opYear:
		pad(b, d.year, 4)
	case opMonth:
		pad(b, d.month, 2)
	case opDay:
		pad(b, d.day, 2)
	case opMonthName:
		b.WriteString(MonthName(d.month))
	case opWeekdayName:
		if w, err := d.Weekday(); err == nil {
			b.WriteString(w.String())
		}
	case opOrdinal:
		if n, err := d.Ordinal(); err == nil {
			pad(b, n, 3)
		}
	}
}

// pad writes n in decimal, left-padded with zeros to width digits.
func pad(b *strings.Builder, n, width int) {
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}
