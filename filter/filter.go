package filter

import (
	"strings"

	"github.com/hupe1980/groundtruth/dataset"
)

// Operator represents a comparison operator.
type Operator string

const (
	// OpEqual represents the equality operator.
	OpEqual Operator = "eq"
	// OpNotEqual represents the inequality operator.
	OpNotEqual Operator = "ne"
	// OpLessThan represents the less than operator.
	OpLessThan Operator = "lt"
	// OpLessEqual represents the less than or equal operator.
	OpLessEqual Operator = "lte"
	// OpGreaterThan represents the greater than operator.
	OpGreaterThan Operator = "gt"
	// OpGreaterEqual represents the greater than or equal operator.
	OpGreaterEqual Operator = "gte"
)

func (op Operator) valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual:
		return true
	default:
		return false
	}
}

// holds applies op to the result of compare(field, value).
func (op Operator) holds(c int) bool {
	switch op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpLessThan:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreaterThan:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	default:
		return false
	}
}

// Condition is one field:type:value:op tuple. Type is kept verbatim; the
// kind of the record field decides how Operand is compared.
type Condition struct {
	Field    string
	Type     string
	Operand  Operand
	Operator Operator
}

// Matches reports whether the record satisfies the condition.
//
// evaluated is false when the record lacks the field or carries it as
// something other than a string or an integer; such conditions neither keep
// nor exclude the record.
func (c Condition) Matches(rec dataset.Record) (matched, evaluated bool) {
	raw, ok := rec[c.Field]
	if !ok {
		return false, false
	}
	r, ok := compare(valueOf(raw), c.Operand)
	if !ok {
		return false, false
	}
	return c.Operator.holds(r), true
}

func (c Condition) String() string {
	return c.Field + ":" + c.Type + ":" + c.Operand.Text + ":" + string(c.Operator)
}

// Spec is an ordered list of conditions. The zero value excludes nothing.
type Spec struct {
	Conditions []Condition

	// Dropped lists the tuples that were ignored while parsing.
	Dropped []string
}

// Parse parses a field:type:value:op list. Tuples that do not have exactly
// four parts, or whose operator is not understood, are dropped and reported
// in Spec.Dropped rather than failing the parse.
func Parse(s string) Spec {
	var spec Spec
	if strings.TrimSpace(s) == "" {
		return spec
	}

	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 4 {
			spec.Dropped = append(spec.Dropped, part)
			continue
		}

		op := Operator(fields[3])
		if !op.valid() {
			spec.Dropped = append(spec.Dropped, part)
			continue
		}

		spec.Conditions = append(spec.Conditions, Condition{
			Field:    fields[0],
			Type:     fields[1],
			Operand:  NewOperand(fields[2]),
			Operator: op,
		})
	}
	return spec
}

// Empty reports whether s has no conditions.
func (s Spec) Empty() bool { return len(s.Conditions) == 0 }

// Exclude reports whether the record must be dropped from scoring: true as
// soon as one evaluated condition does not hold.
func (s Spec) Exclude(rec dataset.Record) bool {
	for _, c := range s.Conditions {
		matched, evaluated := c.Matches(rec)
		if evaluated && !matched {
			return true
		}
	}
	return false
}

// String returns the canonical textual form of the parsed conditions.
func (s Spec) String() string {
	parts := make([]string, len(s.Conditions))
	for i, c := range s.Conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
