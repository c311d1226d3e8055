package generation

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kurikula/internal/domain"
)

// RemoteCallError reports a stage whose model call failed or whose reply did
// not conform to the declared schema. It unwraps to the llm sentinel
// (llm.ErrTimeout, llm.ErrInvalidOutput, ...).
type RemoteCallError struct {
	Stage domain.Stage
	Err   error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Stage, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// ConsistencyError carries the cross-stage findings that rejected a stage
// result in strict mode.
type ConsistencyError struct {
	Stage    domain.Stage
	Findings []Finding
}

func (e *ConsistencyError) Error() string {
	msgs := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		msgs[i] = f.String()
	}
	return fmt.Sprintf("%s result is inconsistent: %s", e.Stage, strings.Join(msgs, "; "))
}
