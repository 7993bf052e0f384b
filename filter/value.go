package filter

import (
	"cmp"
	"math"
	"strconv"

	"github.com/hupe1980/groundtruth/dataset"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents a value that cannot be compared.
	KindInvalid Kind = iota
	// KindInt represents a signed 64-bit integer.
	KindInt
	// KindString represents a string compared lexicographically.
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is a tagged integer-or-string value.
type Value struct {
	Kind Kind
	I64  int64
	Str  string
}

// Int returns an integer Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// String returns a string Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindString:
		return v.Str
	default:
		return "<invalid>"
	}
}

// Operand is the value column of a tuple in both comparable forms. Which
// form is used depends on the kind of the record field it is compared to.
type Operand struct {
	Text string
	Int  int64
}

// NewOperand keeps raw as text and parses its leading integer prefix.
func NewOperand(raw string) Operand {
	return Operand{Text: raw, Int: leadingInt(raw)}
}

// leadingInt parses an optionally signed decimal prefix of s after leading
// white space. It returns 0 when there are no digits and saturates on
// overflow.
func leadingInt(s string) int64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	var n uint64
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := uint64(s[i] - '0')
		if n > (limit-d)/10 {
			n = limit
			break
		}
		n = n*10 + d
	}

	if neg {
		if n == limit {
			return math.MinInt64
		}
		return -int64(n)
	}
	return int64(n)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// valueOf classifies a decoded record field. Floats, booleans, arrays and
// objects are KindInvalid.
func valueOf(v any) Value {
	if s, ok := v.(string); ok {
		return String(s)
	}
	if i, ok := dataset.AsInt64(v); ok {
		return Int(i)
	}
	return Value{}
}

// compare returns -1, 0 or +1 for the record value v against the operand.
// ok is false when v is neither a string nor an integer.
func compare(v Value, o Operand) (c int, ok bool) {
	switch v.Kind {
	case KindString:
		return cmp.Compare(v.Str, o.Text), true
	case KindInt:
		return cmp.Compare(v.I64, o.Int), true
	default:
		return 0, false
	}
}
