package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
	KindTimestamp
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTimestamp:
		return "timestamp"
	case KindBool:
		return "bool"
	}
	return "unknown"
}

// Value is a single scalar cell: Number | Text | Timestamp | Bool | Missing.
// The zero Value is Missing.
type Value struct {
	kind Kind
	num  float64
	str  string
	ts   time.Time
	b    bool
}

// Missing returns the missing value.
func Missing() Value { return Value{} }

// Number wraps f. NaN is treated as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Text wraps s as-is. Use ParseToken to apply null-token detection.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Timestamp wraps t. The zero time is treated as missing.
func Timestamp(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: KindTimestamp, ts: t}
}

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsText() bool { return v.kind == KindText }
func (v Value) IsTime() bool { return v.kind == KindTimestamp }

// Float returns the numeric payload when v is a Number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Time returns the timestamp payload when v is a Timestamp.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTimestamp {
		return time.Time{}, false
	}
	return v.ts, true
}

// String renders v for human-readable output and CSV serialization.
// Missing renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatFloat(v.num)
	case KindText:
		return v.str
	case KindTimestamp:
		return formatTime(v.ts)
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	}
	return ""
}

// JSON returns a JSON-native representation: float64, string, bool or nil.
// Timestamps become RFC3339 strings; non-finite numbers become nil.
func (v Value) JSON() any {
	switch v.kind {
	case KindNumber:
		if math.IsInf(v.num, 0) || math.IsNaN(v.num) {
			return nil
		}
		return v.num
	case KindText:
		return v.str
	case KindTimestamp:
		return v.ts.Format(time.RFC3339)
	case KindBool:
		return v.b
	}
	return nil
}

// Key returns a string usable as a grouping key. Values of different kinds
// never share a key.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return "s:" + v.str
	case KindTimestamp:
		return "t:" + v.ts.UTC().Format(time.RFC3339Nano)
	case KindBool:
		return "b:" + strconv.FormatBool(v.b)
	}
	return ""
}

// Compare orders v against o. Values of the same kind compare naturally;
// different kinds are ordered by Kind with Missing last.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		return kindRank(v.kind) - kindRank(o.kind)
	}
	switch v.kind {
	case KindNumber:
		switch {
		case v.num < o.num:
			return -1
		case v.num > o.num:
			return 1
		}
		return 0
	case KindText:
		return strings.Compare(v.str, o.str)
	case KindTimestamp:
		return v.ts.Compare(o.ts)
	case KindBool:
		switch {
		case v.b == o.b:
			return 0
		case !v.b:
			return -1
		}
		return 1
	}
	return 0
}

func kindRank(k Kind) int {
	if k == KindMissing {
		return int(KindBool) + 1
	}
	return int(k)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatTime(t time.Time) string {
	if _, off := t.Zone(); off != 0 {
		return t.Format("2006-01-02 15:04:05Z07:00")
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
