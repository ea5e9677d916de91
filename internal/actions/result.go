package actions

import (
	"fmt"

	"github.com/danielfarrell/gatsby/internal/event"
)

// Severity classifies the outcome of one action.
type Severity int

const (
	// SeverityOK means the action produced exactly one event.
	SeverityOK Severity = iota
	// SeverityReported means the action was rejected but the build may
	// continue; the diagnostic is recorded, no event is applied.
	SeverityReported
	// SeverityFatal means a plugin contract was violated. The orchestrator
	// decides whether to halt; the core never terminates the process
	// itself.
	SeverityFatal
)

// Diagnostic describes a rejected mutation with enough context to debug a
// contract violation between plugin authors.
type Diagnostic struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Plugin      string `json:"plugin,omitempty"`
	OtherPlugin string `json:"otherPlugin,omitempty"`
	NodeID      string `json:"nodeId,omitempty"`
	Type        string `json:"type,omitempty"`
	Field       string `json:"field,omitempty"`
	// Record is the full submitted record, carried for debugging.
	Record any `json:"record,omitempty"`
}

func (d *Diagnostic) String() string {
	s := fmt.Sprintf("[%s] %s", d.Code, d.Message)
	if d.Plugin != "" {
		s += fmt.Sprintf(" (plugin %q", d.Plugin)
		if d.OtherPlugin != "" {
			s += fmt.Sprintf(", conflicting with %q", d.OtherPlugin)
		}
		s += ")"
	}
	return s
}

// Result is the outcome of one action: exactly one of an event, a
// reported diagnostic, or a fatal diagnostic. No state is applied here;
// the session reducer applies events.
type Result struct {
	Severity Severity
	Event    *event.Event
	Diag     *Diagnostic
}

// Ok wraps a successful outcome event.
func Ok(ev event.Event) Result {
	return Result{Severity: SeverityOK, Event: &ev}
}

// Reported wraps a non-fatal rejection.
func Reported(d Diagnostic) Result {
	return Result{Severity: SeverityReported, Diag: &d}
}

// Fatal wraps a contract violation.
func Fatal(d Diagnostic) Result {
	return Result{Severity: SeverityFatal, Diag: &d}
}

// OK reports whether the action produced an event.
func (r Result) OK() bool { return r.Severity == SeverityOK }
