package workflow

import (
	"errors"
	"fmt"
)

const (
	StageSampling      = "sampling"
	StageEnrichment    = "enrichment"
	StageIdeas         = "ideas"
	StageSummarization = "summarization"
)

// ErrEmptyDescription is returned for blank input before any stage runs.
var ErrEmptyDescription = errors.New("event description is empty")

// StageError marks a failure that aborted the workflow in a given stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Message renders err as the text shown to the person who submitted the form.
func Message(err error) string {
	if errors.Is(err, ErrEmptyDescription) {
		return "❌ Please enter an event description."
	}

	var stageErr *StageError
	if errors.As(err, &stageErr) {
		switch stageErr.Stage {
		case StageSampling:
			return fmt.Sprintf("❌ Error selecting products: %v", stageErr.Err)
		case StageEnrichment:
			return fmt.Sprintf("❌ Error in keyword extraction or web search: %v", stageErr.Err)
		case StageIdeas:
			return fmt.Sprintf("❌ Error generating ideas: %v", stageErr.Err)
		}
	}

	return fmt.Sprintf("❌ %v", err)
}
