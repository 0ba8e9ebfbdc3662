package domain

import "errors"

// Fault is implemented by every verification error type; it ties the error
// to its place in the failure taxonomy.
type Fault interface {
	error
	Kind() FailureKind
}

// Failure is the reportable form of a verification error: its kind, the
// exact diagnostic text, and the input location for structural failures.
type Failure struct {
	Kind    FailureKind
	Message string
	File    string
	Line    int
}

// AsFailure converts an error produced during verification into a Failure.
// Errors outside the taxonomy are treated as structural.
func AsFailure(err error) Failure {
	var se *StructuralError
	if errors.As(err, &se) {
		return Failure{Kind: KindStructural, Message: se.Error(), File: se.File, Line: se.Line}
	}

	var f Fault
	if errors.As(err, &f) {
		return Failure{Kind: f.Kind(), Message: f.Error()}
	}

	return Failure{Kind: KindStructural, Message: err.Error()}
}

// Result is the outcome of verifying one candidate solution. The feasibility
// and time phases are recorded independently: a solution that fails
// feasibility still has its time check run and recorded, and the feasibility
// failure takes precedence in the final verdict.
type Result struct {
	Feasibility *Failure
	Time        *Failure

	// ReportedSeconds and AllowedSeconds are filled by the time phase for
	// archival; AllowedSeconds is zero when the benchmark lookup failed.
	ReportedSeconds float64
	AllowedSeconds  float64
}

// OK reports whether both phases passed.
func (r Result) OK() bool { return r.Feasibility == nil && r.Time == nil }

// First returns the verdict-determining failure: the feasibility failure if
// one occurred, else the time failure, else nil.
func (r Result) First() *Failure {
	if r.Feasibility != nil {
		return r.Feasibility
	}
	return r.Time
}
