package criteria

import (
	"fmt"
	"math"
	"strings"
	"time"

	"vfind/internal/common"
)

// dateSeparators may appear between the fields of a date specification.
const dateSeparators = "-/:. tT_"

// ParseDate parses a -d value: an optional comparison prefix (+ - ! =)
// followed by a keyword (now, today, yesterday, tomorrow or their short
// forms) or a date of the form [CC]YY[-MM[-DD]][:HH[:MM[:SS]]]. Fields left
// out take their earliest value. The date is interpreted in loc.
func ParseDate(spec string, now time.Time, loc *time.Location) (DateConstraint, error) {
	if loc == nil {
		loc = time.Local
	}
	mode, rest := modeFromPrefix(spec)

	now = now.In(loc).Truncate(time.Second)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch strings.ToLower(rest) {
	case "now", ".":
		return DateConstraint{Mode: mode, Ref: now}, nil
	case "today", "tod":
		return DateConstraint{Mode: mode, Ref: midnight}, nil
	case "yesterday", "yest":
		return DateConstraint{Mode: mode, Ref: midnight.AddDate(0, 0, -1)}, nil
	case "tomorrow", "tom":
		return DateConstraint{Mode: mode, Ref: midnight.AddDate(0, 0, 1)}, nil
	}

	ref, err := parseDateFields(rest, loc)
	if err != nil {
		return DateConstraint{}, fmt.Errorf("%w: bad date %q: %w", common.ErrUsage, spec, err)
	}
	return DateConstraint{Mode: mode, Ref: ref}, nil
}

// parseDateFields scans up to six numeric fields. The year takes up to four
// digits and every other field up to two.
func parseDateFields(s string, loc *time.Location) (time.Time, error) {
	if s == "" || !isDigit(s[0]) {
		return time.Time{}, fmt.Errorf("date must start with a year")
	}

	widths := [6]int{4, 2, 2, 2, 2, 2}
	fields := [6]int{0, 1, 1, 0, 0, 0}

	i := 0
	for f := 0; f < len(widths); f++ {
		for i < len(s) && strings.IndexByte(dateSeparators, s[i]) >= 0 {
			i++
		}
		if i >= len(s) {
			break
		}
		if !isDigit(s[i]) {
			return time.Time{}, fmt.Errorf("unexpected character %q", s[i])
		}
		v, n := 0, 0
		for n < widths[f] && i < len(s) && isDigit(s[i]) {
			v = v*10 + int(s[i]-'0')
			i++
			n++
		}
		fields[f] = v
	}
	for i < len(s) && strings.IndexByte(dateSeparators, s[i]) >= 0 {
		i++
	}
	if i < len(s) {
		return time.Time{}, fmt.Errorf("trailing characters %q", s[i:])
	}

	year, month, day := fields[0], fields[1], fields[2]
	hour, minute, sec := fields[3], fields[4], fields[5]
	if year <= 100 {
		year += 2000
	}

	switch {
	case month < 1 || month > 12:
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	case day < 1 || day > daysIn(year, time.Month(month)):
		return time.Time{}, fmt.Errorf("day %d out of range", day)
	case hour > 23:
		return time.Time{}, fmt.Errorf("hour %d out of range", hour)
	case minute > 59:
		return time.Time{}, fmt.Errorf("minute %d out of range", minute)
	case sec > 59:
		return time.Time{}, fmt.Errorf("second %d out of range", sec)
	}
	return time.Date(year, time.Month(month), day, hour, minute, sec, 0, loc), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseSize parses a -s value: an optional comparison prefix (+ - ! =),
// decimal digits and an optional k, m or g suffix (powers of 1024).
func ParseSize(spec string) (SizeConstraint, error) {
	mode, rest := modeFromPrefix(spec)

	digits := rest
	var mult uint64 = 1
	if n := len(rest); n > 0 {
		if m, ok := sizeSuffixes[rest[n-1]|0x20]; ok {
			mult = m
			digits = rest[:n-1]
		}
	}

	if digits == "" {
		return SizeConstraint{}, fmt.Errorf("%w: bad size %q: missing number", common.ErrUsage, spec)
	}

	var v uint64
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return SizeConstraint{}, fmt.Errorf("%w: bad size %q: unexpected character %q", common.ErrUsage, spec, digits[i])
		}
		d := uint64(digits[i] - '0')
		if v > (math.MaxUint64-d)/10 {
			return SizeConstraint{}, fmt.Errorf("%w: bad size %q: value overflows", common.ErrUsage, spec)
		}
		v = v*10 + d
	}
	if v > math.MaxUint64/mult {
		return SizeConstraint{}, fmt.Errorf("%w: bad size %q: value overflows", common.ErrUsage, spec)
	}
	return SizeConstraint{Mode: mode, Ref: v * mult}, nil
}

var sizeSuffixes = map[byte]uint64{
	'b': 1,
	'k': 1 << 10,
	'm': 1 << 20,
	'g': 1 << 30,
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
