package pipeline

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/kurikula/internal/domain"
)

// ErrBusy is returned when an intent arrives while a stage call is in flight.
var ErrBusy = errors.New("a generation is already in progress")

// ValidationError reports a submit rejected before any model call because
// its required input is missing or blank.
type ValidationError struct {
	Stage   domain.Stage
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cannot generate %s: %s", e.Stage, e.Message)
}

// failureMessages are the user-facing messages stored in State.Err when a
// stage call fails. Each stage has its own text.
var failureMessages = map[domain.Stage]string{
	domain.StageObjectives: "Failed to generate learning objectives (TP). Check that the API key is valid.",
	domain.StageFlow:       "Failed to generate the objective flow (ATP).",
	domain.StageAnnual:     "Failed to generate the annual program (Prota).",
	domain.StageSemester:   "Failed to generate the semester program (Promes).",
}

// FailureMessage returns the message shown after stage fails.
func FailureMessage(stage domain.Stage) string {
	if m, ok := failureMessages[stage]; ok {
		return m
	}
	return "Generation failed."
}

var missingInputMessages = map[domain.Stage]string{
	domain.StageObjectives: "enter the learning outcome (CP) narrative first",
	domain.StageFlow:       "generate learning objectives (TP) first",
	domain.StageAnnual:     "generate the objective flow (ATP) first",
	domain.StageSemester:   "generate the annual program (Prota) first",
}
