package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// InvalidID is the sentinel id returned for an unknown dataset kind.
const InvalidID int64 = -1

var (
	// ErrInvalidID is returned when a record's id field is missing or cannot be
	// parsed.
	ErrInvalidID = errors.New("invalid vector id")

	// ErrMalformedID is returned when a composite id does not split into
	// exactly two parts.
	ErrMalformedID = errors.New("malformed composite vector id")
)

// Kind identifies a benchmark corpus.
type Kind int

const (
	KindUnknown Kind = iota
	KindWikipedia
	KindBioASQ
	KindMIRACL
)

// compositeSeparator splits MIRACL doc ids.
const compositeSeparator = "#"

// compositePad is the width the passage number is zero-padded to.
const compositePad = 4

func (k Kind) String() string {
	switch k {
	case KindWikipedia:
		return "wikipedia"
	case KindBioASQ:
		return "beir-bioasq"
	case KindMIRACL:
		return "miracl"
	default:
		return "unknown"
	}
}

// IDField returns the record field that carries the vector id.
func (k Kind) IDField() string {
	switch k {
	case KindWikipedia:
		return "id"
	case KindBioASQ:
		return "_id"
	case KindMIRACL:
		return "docid"
	default:
		return ""
	}
}

// KindFromName derives the corpus from a dataset name or path by substring
// match. It returns KindUnknown when nothing matches.
func KindFromName(name string) Kind {
	switch {
	case strings.Contains(name, "wikipedia"):
		return KindWikipedia
	case strings.Contains(name, "bioasq"):
		return KindBioASQ
	case strings.Contains(name, "miracl"):
		return KindMIRACL
	default:
		return KindUnknown
	}
}

// ExtractID maps a record to its integer vector id.
//
// For KindUnknown it returns InvalidID and a nil error; callers decide whether
// that is fatal.
func ExtractID(kind Kind, rec Record) (int64, error) {
	switch kind {
	case KindWikipedia:
		id, ok := rec.Int("id")
		if !ok {
			return InvalidID, fmt.Errorf("%w: field %q is not an integer", ErrInvalidID, "id")
		}
		return id, nil

	case KindBioASQ:
		s, ok := rec.String("_id")
		if !ok {
			return InvalidID, fmt.Errorf("%w: field %q is not a string", ErrInvalidID, "_id")
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return InvalidID, fmt.Errorf("%w: %q: %w", ErrInvalidID, s, err)
		}
		return id, nil

	case KindMIRACL:
		s, ok := rec.String("docid")
		if !ok {
			return InvalidID, fmt.Errorf("%w: field %q is not a string", ErrInvalidID, "docid")
		}
		return ParseCompositeID(s)

	default:
		return InvalidID, nil
	}
}

// ParseCompositeID folds "<doc>#<passage>" into doc*10^4 + passage by string
// concatenation of doc and the four-digit zero-padded passage.
func ParseCompositeID(s string) (int64, error) {
	parts := strings.Split(s, compositeSeparator)
	if len(parts) != 2 {
		return InvalidID, fmt.Errorf("%w: %q", ErrMalformedID, s)
	}

	passage := parts[1]
	if n := len(passage); n < compositePad {
		passage = strings.Repeat("0", compositePad-n) + passage
	}

	id, err := strconv.ParseInt(parts[0]+passage, 10, 64)
	if err != nil {
		return InvalidID, fmt.Errorf("%w: %q: %w", ErrMalformedID, s, err)
	}
	return id, nil
}
