package graph

import (
	"errors"
	"fmt"
)

// Graph domain errors.
var (
	// ErrInvalidGraph matches every GraphError.
	ErrInvalidGraph = errors.New("invalid project graph")
	// ErrUnknownResource indicates a task allocates a resource no supplied project provides.
	ErrUnknownResource = errors.New("resource not reachable from any project")
	// ErrUnknownDependency indicates a task depends on a task that is not in the graph.
	ErrUnknownDependency = errors.New("dependency not found")
	// ErrDuplicateToken indicates two entities map to the same engine token.
	ErrDuplicateToken = errors.New("duplicate token")
	// ErrConflictingResource indicates one resource id carries different names.
	ErrConflictingResource = errors.New("conflicting resource definitions")
	// ErrMissingID indicates an entity without identifier.
	ErrMissingID = errors.New("missing identifier")
)

// GraphError reports a structural problem with the input graph. It is raised
// before any engine process starts.
type GraphError struct {
	Entity string // token or description of the offending entity
	Err    error
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("invalid project graph: %s: %v", e.Entity, e.Err)
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrInvalidGraph) for every GraphError.
func (e *GraphError) Is(target error) bool {
	return target == ErrInvalidGraph
}
