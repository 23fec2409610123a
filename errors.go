package sparsebits

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sparsebits/internal/node"
)

var (
	// ErrCorrupt is wrapped by every Validate failure.
	ErrCorrupt = node.ErrCorrupt

	// ErrInvalidLevel is the panic cause when a node is built outside the
	// level table. It is unreachable through the public API.
	ErrInvalidLevel = node.ErrInvalidLevel

	// ErrEmpty is returned by operations that need at least one member.
	ErrEmpty = errors.New("bitmap is empty")

	// ErrRange is wrapped by every ErrInvalidRange.
	ErrRange = errors.New("invalid range")
)

// ErrInvalidRange indicates a range whose lower bound exceeds its upper bound.
// It unwraps to ErrRange, so errors.Is(err, ErrRange) matches it.
type ErrInvalidRange struct {
	Lo, Hi uint64
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("%v: lo %d > hi %d", ErrRange, e.Lo, e.Hi)
}

func (e *ErrInvalidRange) Unwrap() error { return ErrRange }

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, node.ErrCorrupt) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCorrupt, err)
}
