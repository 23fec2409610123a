package node

import "errors"

var (
	// ErrInvalidLevel is the panic cause for a node level outside the table,
	// or a child appended at the wrong level.
	ErrInvalidLevel = errors.New("invalid node level")

	// ErrLeafAppend is the panic cause for appending a child to a leaf-word node.
	ErrLeafAppend = errors.New("cannot append child to leaf-word node")

	// ErrCorrupt is wrapped by every Validate failure.
	ErrCorrupt = errors.New("corrupt node")
)
