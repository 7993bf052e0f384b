package groundtruth

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDataset is returned when the dataset name matches no known
	// corpus.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrInvalidConfig is returned for out-of-range configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDataIntegrity wraps every error caused by inconsistent input data.
	// Such errors abort the run.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// ErrDimensionMismatch indicates a query or candidate whose embedding length
// differs from the configured dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	Source   string
	Index    int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch in %s record %d: expected %d, got %d", e.Source, e.Index, e.Expected, e.Actual)
}

// Unwrap makes errors.Is(err, ErrDataIntegrity) hold.
func (e *ErrDimensionMismatch) Unwrap() error { return ErrDataIntegrity }

// ErrConfigValue describes one rejected configuration value.
type ErrConfigValue struct {
	Field  string
	Value  any
	Reason string
}

func (e *ErrConfigValue) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidConfig) hold.
func (e *ErrConfigValue) Unwrap() error { return ErrInvalidConfig }

// integrityError tags err with the record that caused it.
func integrityError(source string, index int, err error) error {
	return fmt.Errorf("%w: %s record %d: %w", ErrDataIntegrity, source, index, err)
}
