package geometry

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when a model index addresses a vertex the model does not own.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrMalformedVertices is returned when a vertex slice is not a whole number of vertices.
	ErrMalformedVertices = errors.New("vertex data is not a multiple of the vertex stride")

	// ErrRangeOutOfBounds is returned when a material range runs past the model's indices.
	ErrRangeOutOfBounds = errors.New("material range exceeds index data")
)

// IntegrityError describes malformed data handed over by the parsing collaborator.
type IntegrityError struct {
	Model   int    // position of the model in the scene
	ModelID uint64 // source engine identifier
	Detail  string
	Err     error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("model %d (id %d): %v: %s", e.Model, e.ModelID, e.Err, e.Detail)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
