package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NumberFormat controls how text is coerced into numbers.
// The zero value is strict: '.' decimal separator and no thousands separator.
type NumberFormat struct {
	Decimal   rune
	Thousands rune
	// Auto detects the decimal separator per value and strips common
	// thousands separators and a trailing percent sign.
	Auto bool
}

// AutoNumberFormat detects separators per value.
func AutoNumberFormat() NumberFormat { return NumberFormat{Auto: true} }

// nullTokens mirrors the default NA markers recognised by pandas.read_csv.
var nullTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNullToken reports whether s is a null-equivalent marker.
func IsNullToken(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}

// ParseToken turns a raw cell into Text or Missing.
func ParseToken(s string) Value {
	if IsNullToken(s) {
		return Missing()
	}
	return Text(s)
}

// dateLayouts are tried in order. Month-first wins for ambiguous slashes.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"02.01.2006",
	"2006-01",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04:05 -0700",
	"Mon Jan _2 15:04:05 2006",
}

// ParseTime tries the known layouts against s.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses s according to f.
func ParseNumber(s string, f NumberFormat) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	if f.Auto {
		return parseAuto(raw)
	}
	dec := f.Decimal
	if dec == 0 {
		dec = '.'
	}
	if f.Thousands != 0 && f.Thousands != dec {
		raw = strings.ReplaceAll(raw, string(f.Thousands), "")
	}
	if dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	return parseFloat(raw)
}

func parseAuto(raw string) (float64, bool) {
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	dec := '.'
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	if cpos >= 0 && (dpos < 0 || cpos > dpos) {
		dec = ','
	}
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	return parseFloat(raw)
}

func parseFloat(raw string) (float64, bool) {
	// strconv accepts hex floats and underscores in some forms; pandas does not.
	if strings.ContainsAny(raw, "_xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseBool recognises true/false case-insensitively.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// CoerceNumber converts v to a Number. Text is parsed with f; Numbers pass
// through. Anything else yields Missing and false.
func CoerceNumber(v Value, f NumberFormat) (Value, bool) {
	switch v.kind {
	case KindNumber:
		return v, true
	case KindText:
		if x, ok := ParseNumber(v.str, f); ok {
			return Number(x), true
		}
	}
	return Missing(), false
}

// CoerceTime converts v to a Timestamp. Text is parsed with the known
// layouts; Timestamps pass through. Anything else yields Missing and false.
func CoerceTime(v Value) (Value, bool) {
	switch v.kind {
	case KindTimestamp:
		return v, true
	case KindText:
		if t, ok := ParseTime(v.str); ok {
			return Timestamp(t), true
		}
	}
	return Missing(), false
}
