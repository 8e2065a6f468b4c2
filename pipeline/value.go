package pipeline

import (
	"time"

	"golang.org/x/text/collate"
)

type valueKind int

const (
	kindNone valueKind = iota
	kindText
	kindNumber
)

// Value is a sortable field value: text, a number, or absent
type Value struct {
	kind valueKind
	text string
	num  int64
}

// None is the value of a field the record does not carry
var None = Value{}

// Text wraps a string compared with the collator
func Text(s string) Value { return Value{kind: kindText, text: s} }

// Number wraps a count compared numerically
func Number(n int64) Value { return Value{kind: kindNumber, num: n} }

// Time wraps a timestamp, compared by its instant
func Time(t time.Time) Value { return Value{kind: kindNumber, num: t.UnixNano()} }

// IsNone reports whether the value is absent
func (v Value) IsNone() bool { return v.kind == kindNone }

// compare orders two present values of the same kind. Mixed kinds compare by kind
// so the order stays total.
func compare(col *collate.Collator, a, b Value) int {
	if a.kind != b.kind {
		return int(a.kind) - int(b.kind)
	}
	switch a.kind {
	case kindText:
		return col.CompareString(a.text, b.text)
	case kindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
	}
	return 0
}
