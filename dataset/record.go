package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// EmbeddingField is the record field holding the vector.
const EmbeddingField = "emb"

// ErrInvalidEmbedding is returned when the "emb" field is present but is not an
// array of numbers.
var ErrInvalidEmbedding = errors.New("invalid embedding")

// ErrEmbeddingNotArray is the ErrInvalidEmbedding raised when "emb" is not an
// array at all.
var ErrEmbeddingNotArray = fmt.Errorf("%w: not an array", ErrInvalidEmbedding)

// Record is one decoded JSON object. Numbers are kept as json.Number so that
// integer fields retain full int64 precision.
type Record map[string]any

// String returns the string value of field.
func (r Record) String(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the integer value of field. Non-integral numbers and other JSON
// kinds report false.
func (r Record) Int(field string) (int64, bool) {
	v, ok := r[field]
	if !ok {
		return 0, false
	}
	return AsInt64(v)
}

// Has reports whether the field is present.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r)+3)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// AsInt64 converts a decoded JSON value to int64 if it is an integer.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat32(v any) (float32, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 32)
		if err != nil {
			return 0, false
		}
		return float32(f), true
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int64:
		return float32(n), true
	case int:
		return float32(n), true
	default:
		return 0, false
	}
}

// Embedding decodes the "emb" field.
//
// ok is false when the record has no embedding; such records are not
// candidates. A present field that is not an array of numbers is an error.
func (r Record) Embedding() (vec []float32, ok bool, err error) {
	raw, present := r[EmbeddingField]
	if !present {
		return nil, false, nil
	}

	switch arr := raw.(type) {
	case []float32:
		return arr, true, nil
	case []any:
		vec = make([]float32, len(arr))
		for i, e := range arr {
			f, isNum := asFloat32(e)
			if !isNum {
				return nil, true, fmt.Errorf("%w: element %d is %T", ErrInvalidEmbedding, i, e)
			}
			vec[i] = f
		}
		return vec, true, nil
	default:
		return nil, true, fmt.Errorf("%w: field is %T", ErrEmbeddingNotArray, raw)
	}
}
