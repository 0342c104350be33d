package network

import "errors"

var (
	// ErrConfiguration marks problems that abort a run before any graph is built.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnknownNode is returned when an edge references a node that is not in the graph.
	ErrUnknownNode = errors.New("unknown node")
)
