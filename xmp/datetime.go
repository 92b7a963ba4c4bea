package xmp

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTime is an ISO 8601 date as used by XMP. Any prefix of
// YYYY-MM-DDThh:mm:ss.sTZD is allowed, and the precision and offset found
// in the text are kept so the value is written back unchanged.
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
	// Fraction holds the fractional second digits exactly as written.
	Fraction string

	HasMonth  bool
	HasDay    bool
	HasTime   bool
	HasSecond bool
	// HasZone reports whether a time zone designator was present.
	HasZone bool
	// ZoneOffset is the offset from UTC in seconds.
	ZoneOffset int
	// Zone is the designator as written ("Z", "+00:00", "-05:30"). String
	// writes it back while it still denotes ZoneOffset.
	Zone string
}

// ParseDate parses an XMP date. Fails with ErrInvalidValue.
func ParseDate(s string) (DateTime, error) {
	var dt DateTime
	p := dateScanner{s: strings.TrimSpace(s)}
	fail := func(what string) (DateTime, error) {
		return DateTime{}, fmt.Errorf("%w: date %q: %s", ErrInvalidValue, s, what)
	}

	neg := p.accept('-')
	year, ok := p.digits(4, 4)
	if !ok {
		return fail("bad year")
	}
	dt.Year = year
	if neg {
		dt.Year = -year
	}
	if p.done() {
		return dt, nil
	}
	if !p.accept('-') {
		return fail("expected '-' after year")
	}
	if dt.Month, ok = p.digits(2, 2); !ok || dt.Month < 1 || dt.Month > 12 {
		return fail("bad month")
	}
	dt.HasMonth = true
	if p.done() {
		return dt, nil
	}
	if !p.accept('-') {
		return fail("expected '-' after month")
	}
	if dt.Day, ok = p.digits(2, 2); !ok || dt.Day < 1 || dt.Day > daysIn(dt.Year, dt.Month) {
		return fail("bad day")
	}
	dt.HasDay = true
	if p.done() {
		return dt, nil
	}
	if !p.accept('T') {
		return fail("expected 'T' after day")
	}
	dt.HasTime = true
	if dt.Hour, ok = p.digits(2, 2); !ok || dt.Hour > 23 {
		return fail("bad hour")
	}
	if !p.accept(':') {
		return fail("expected ':' after hour")
	}
	if dt.Minute, ok = p.digits(2, 2); !ok || dt.Minute > 59 {
		return fail("bad minute")
	}
	if p.accept(':') {
		if dt.Second, ok = p.digits(2, 2); !ok || dt.Second > 59 {
			return fail("bad second")
		}
		dt.HasSecond = true
		if p.accept('.') {
			start := p.pos
			if _, ok = p.digits(1, 9); !ok {
				return fail("bad fraction")
			}
			dt.Fraction = p.s[start:p.pos]
		}
	}
	if p.done() {
		return dt, nil
	}
	zone := p.s[p.pos:]
	offset, ok := parseZone(zone)
	if !ok {
		return fail("bad time zone")
	}
	dt.HasZone, dt.ZoneOffset, dt.Zone = true, offset, zone
	return dt, nil
}

// parseZone reads a Z or ±hh:mm designator into an offset in seconds.
func parseZone(z string) (int, bool) {
	if z == "Z" {
		return 0, true
	}
	if len(z) != 6 || (z[0] != '+' && z[0] != '-') || z[3] != ':' {
		return 0, false
	}
	p := dateScanner{s: z, pos: 1}
	hh, okH := p.digits(2, 2)
	p.pos++
	mm, okM := p.digits(2, 2)
	if !okH || !okM || hh > 23 || mm > 59 {
		return 0, false
	}
	offset := hh*3600 + mm*60
	if z[0] == '-' {
		offset = -offset
	}
	return offset, true
}

// FromTime returns a DateTime with nanosecond precision and the offset of t.
func FromTime(t time.Time) DateTime {
	_, offset := t.Zone()
	dt := DateTime{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
		HasMonth: true, HasDay: true, HasTime: true, HasSecond: true,
		HasZone: true, ZoneOffset: offset,
	}
	if ns := t.Nanosecond(); ns != 0 {
		dt.Fraction = strings.TrimRight(fmt.Sprintf("%09d", ns), "0")
	}
	return dt
}

// Time converts to a time.Time. Missing parts default to their minimum and
// a missing zone is taken as UTC.
func (dt DateTime) Time() time.Time {
	month, day := 1, 1
	if dt.HasMonth {
		month = dt.Month
	}
	if dt.HasDay {
		day = dt.Day
	}
	loc := time.UTC
	if dt.HasZone && dt.ZoneOffset != 0 {
		loc = time.FixedZone("", dt.ZoneOffset)
	}
	nsec := 0
	if dt.Fraction != "" {
		frac := (dt.Fraction + "000000000")[:9]
		nsec, _ = strconv.Atoi(frac)
	}
	return time.Date(dt.Year, time.Month(month), day, dt.Hour, dt.Minute, dt.Second, nsec, loc)
}

// String formats the date with exactly the precision it carries.
func (dt DateTime) String() string {
	var b strings.Builder
	year := dt.Year
	if year < 0 {
		b.WriteByte('-')
		year = -year
	}
	fmt.Fprintf(&b, "%04d", year)
	if !dt.HasMonth {
		return b.String()
	}
	fmt.Fprintf(&b, "-%02d", dt.Month)
	if !dt.HasDay {
		return b.String()
	}
	fmt.Fprintf(&b, "-%02d", dt.Day)
	if !dt.HasTime {
		return b.String()
	}
	fmt.Fprintf(&b, "T%02d:%02d", dt.Hour, dt.Minute)
	if dt.HasSecond || dt.Fraction != "" {
		fmt.Fprintf(&b, ":%02d", dt.Second)
		if dt.Fraction != "" {
			b.WriteByte('.')
			b.WriteString(dt.Fraction)
		}
	}
	if dt.HasZone {
		if off, ok := parseZone(dt.Zone); ok && off == dt.ZoneOffset {
			b.WriteString(dt.Zone)
		} else if dt.ZoneOffset == 0 {
			b.WriteByte('Z')
		} else {
			off := dt.ZoneOffset
			sign := byte('+')
			if off < 0 {
				sign = '-'
				off = -off
			}
			fmt.Fprintf(&b, "%c%02d:%02d", sign, off/3600, off%3600/60)
		}
	}
	return b.String()
}

func (dt DateTime) validate() error {
	if dt.Year < -9999 || dt.Year > 9999 {
		return errorf(ErrInvalidValue, "year %d out of range", dt.Year)
	}
	if dt.HasMonth && (dt.Month < 1 || dt.Month > 12) {
		return errorf(ErrInvalidValue, "month %d out of range", dt.Month)
	}
	if dt.HasDay && (!dt.HasMonth || dt.Day < 1 || dt.Day > daysIn(dt.Year, dt.Month)) {
		return errorf(ErrInvalidValue, "day %d out of range", dt.Day)
	}
	if dt.HasTime && (!dt.HasDay || dt.Hour < 0 || dt.Hour > 23 || dt.Minute < 0 || dt.Minute > 59) {
		return errorf(ErrInvalidValue, "time %02d:%02d out of range", dt.Hour, dt.Minute)
	}
	if dt.Second < 0 || dt.Second > 59 {
		return errorf(ErrInvalidValue, "second %d out of range", dt.Second)
	}
	for _, r := range dt.Fraction {
		if r < '0' || r > '9' {
			return errorf(ErrInvalidValue, "fraction %q is not numeric", dt.Fraction)
		}
	}
	if dt.ZoneOffset <= -24*3600 || dt.ZoneOffset >= 24*3600 {
		return errorf(ErrInvalidValue, "zone offset %d out of range", dt.ZoneOffset)
	}
	return nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

type dateScanner struct {
	s   string
	pos int
}

func (p *dateScanner) done() bool { return p.pos >= len(p.s) }

func (p *dateScanner) peek() byte {
	if p.done() {
		return 0
	}
	return p.s[p.pos]
}

func (p *dateScanner) accept(c byte) bool {
	if p.peek() == c && !p.done() {
		p.pos++
		return true
	}
	return false
}

// digits reads between minN and maxN decimal digits.
func (p *dateScanner) digits(minN, maxN int) (int, bool) {
	start := p.pos
	for p.pos < len(p.s) && p.pos-start < maxN && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if p.pos-start < minN {
		return 0, false
	}
	v, err := strconv.Atoi(p.s[start:p.pos])
	return v, err == nil
}
