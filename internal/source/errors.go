package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrColumnNotFound indicates a bound column is missing from the header.
var ErrColumnNotFound = errors.New("column not found")

// ErrUnsupportedFormat indicates a file extension no loader handles.
var ErrUnsupportedFormat = errors.New("unsupported data file format")

// ErrEmptyInput indicates a file without a header row.
var ErrEmptyInput = errors.New("no header row")

// ColumnError reports a binding that names a column the header lacks.
type ColumnError struct {
	Role       string
	Column     string
	Suggestion string
	Err        error
}

func (e *ColumnError) Error() string {
	msg := fmt.Sprintf("%s column %q: %v", e.Role, e.Column, e.Err)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

func newColumnError(role, column string, header []string) *ColumnError {
	return &ColumnError{
		Role:       role,
		Column:     column,
		Suggestion: closest(column, header),
		Err:        ErrColumnNotFound,
	}
}

// closest returns the header name nearest to name by edit distance, or ""
// when nothing is close enough to be a plausible typo.
func closest(name string, header []string) string {
	want := strings.ToLower(strings.TrimSpace(name))
	best, bestDist := "", -1
	for _, h := range header {
		d := levenshtein.ComputeDistance(want, strings.ToLower(strings.TrimSpace(h)))
		if bestDist < 0 || d < bestDist {
			best, bestDist = h, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(want)/3) {
		return ""
	}
	return best
}
