package route

import "errors"

var (
	// ErrInvalidRule is returned when a routing rule cannot be compiled.
	ErrInvalidRule = errors.New("route: invalid routing rule")

	// ErrInvalidField is returned when a mapping field is neither a literal
	// nor a capture-group index.
	ErrInvalidField = errors.New("route: invalid mapping field")

	// ErrReadRules is returned when the routing table cannot be read.
	ErrReadRules = errors.New("route: failed to read routing table")
)
