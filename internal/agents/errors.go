package agents

import (
	"fmt"
	"strings"
)

// PrerequisiteError reports an agent run attempted out of order. It names the
// first missing prerequisite so callers can tell the user what to run first.
type PrerequisiteError struct {
	Step    Step
	Missing Step
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("step %s requires %s to have run first", e.Step, e.Missing)
}

// ValidationError reports that the model never produced a schema-valid result
// within the retry budget. Causes holds the validation error from each attempt,
// last one last.
type ValidationError struct {
	Step     Step
	Attempts int
	Causes   []string
}

func (e *ValidationError) Error() string {
	last := ""
	if len(e.Causes) > 0 {
		last = e.Causes[len(e.Causes)-1]
	}
	return fmt.Sprintf("step %s produced no valid result after %d attempts: %s", e.Step, e.Attempts, last)
}

// History returns all attempt failures joined for logging.
func (e *ValidationError) History() string {
	return strings.Join(e.Causes, "; ")
}
