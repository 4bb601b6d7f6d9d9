package llm

import (
	"errors"
	"fmt"
)

const (
	OpComplete = "complete"
	OpSearch   = "complete_with_search"
)

var (
	ErrNoCandidates  = errors.New("no content generated")
	ErrEmptyResponse = errors.New("empty response from model")
)

// GenerationError carries an upstream fault from a single generation call.
type GenerationError struct {
	Op    string
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s (%s): %v", e.Op, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
