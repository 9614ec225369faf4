package shape

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedShape is returned for shapes whose kind is not registered or whose type does not
	// implement the capabilities its kind was registered with.
	ErrUnsupportedShape = errors.New("unsupported shape")
	// ErrNoAlgorithm is returned by the query dispatchers when no algorithm covers the given shapes.
	// It is an integration error and never means "no contact" or "no hit".
	ErrNoAlgorithm = errors.New("no algorithm for shapes")
	// ErrBadDimensions is returned when a shape is constructed with invalid dimensions.
	ErrBadDimensions = errors.New("bad shape dimensions")
	// ErrAttributeMismatch is returned when a mesh attribute buffer does not match its vertex buffer.
	ErrAttributeMismatch = errors.New("mesh attribute mismatch")
)

func newBadShapeDimensionsError(k Kind, format string, args ...interface{}) error {
	return errors.Wrapf(ErrBadDimensions, "%s: %s", k, fmt.Sprintf(format, args...))
}

func newUnsupportedShapeError(s Shape) error {
	if s == nil {
		return errors.Wrap(ErrUnsupportedShape, "nil shape")
	}
	return errors.Wrapf(ErrUnsupportedShape, "%s (%T)", s.Kind(), s)
}

func newAttributeMismatchError(attribute string, got, want int) error {
	return errors.Wrapf(ErrAttributeMismatch, "%s buffer has %d elements, expected one per vertex (%d)", attribute, got, want)
}

// NoAlgorithmError reports that a query could not be dispatched for the given shape kinds.
// It matches ErrNoAlgorithm with errors.Is and unwraps to its cause, if any.
type NoAlgorithmError struct {
	Query string
	Kinds []Kind
	Cause error
}

// NewNoAlgorithmError returns a NoAlgorithmError for the query on the given shapes.
func NewNoAlgorithmError(query string, cause error, shapes ...Shape) *NoAlgorithmError {
	kinds := make([]Kind, 0, len(shapes))
	for _, s := range shapes {
		if s == nil {
			kinds = append(kinds, 0)
			continue
		}
		kinds = append(kinds, s.Kind())
	}
	return &NoAlgorithmError{Query: query, Kinds: kinds, Cause: cause}
}

func (e *NoAlgorithmError) Error() string {
	names := make([]string, 0, len(e.Kinds))
	for _, k := range e.Kinds {
		names = append(names, k.String())
	}
	msg := fmt.Sprintf("%s: %s between [%s]", ErrNoAlgorithm, e.Query, strings.Join(names, ", "))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is matches ErrNoAlgorithm.
func (e *NoAlgorithmError) Is(target error) bool {
	return target == ErrNoAlgorithm
}

// Unwrap returns the cause.
func (e *NoAlgorithmError) Unwrap() error {
	return e.Cause
}
