package smallworld

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when an insertion or search runs
	// before the first node has been seeded.
	ErrNotInitialized = errors.New("smallworld: index has no entry point; the first element must be added before anything else")

	// ErrUnsupported is returned for range queries.
	ErrUnsupported = errors.New("smallworld: range search is not supported")
)

// ErrGraphCorruption indicates an internal id outside the legal range
// was observed during a search, or the node table ended up with the
// wrong size after a build. The index should be considered unusable.
type ErrGraphCorruption struct {
	Detail string
}

func (e *ErrGraphCorruption) Error() string {
	return fmt.Sprintf("smallworld: graph corruption: %s", e.Detail)
}

// ErrDataMutation indicates that the data sequence supplied at load
// time does not match the one the index was saved against.
type ErrDataMutation struct {
	Detail string
}

func (e *ErrDataMutation) Error() string {
	return fmt.Sprintf("smallworld: the data used for loading is different from the data used for indexing: %s", e.Detail)
}

// ErrFormat indicates a malformed save file.
type ErrFormat struct {
	Line   int
	Detail string
}

func (e *ErrFormat) Error() string {
	return fmt.Sprintf("smallworld: malformed index file, line %d: %s", e.Line, e.Detail)
}
