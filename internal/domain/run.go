package domain

import "time"

// Represents one archived verification outcome. Ordinal is the 1-based
// position of the solution within its file's stream (several candidates may
// share one file under the annotated multi-solution convention).
type Run struct {
	ID              int64
	Instance        string
	Solution        string
	Ordinal         int
	Verdict         string
	Message         string
	ReportedSeconds float64
	AllowedSeconds  float64
	CreatedAt       time.Time
}

// VerdictSuccess is the verdict recorded for a fully passing solution;
// failures record their FailureKind instead.
const VerdictSuccess = "success"

// RunVerdict derives the archive verdict and message from a result.
func RunVerdict(res Result) (verdict, message string) {
	if res.OK() {
		return VerdictSuccess, ""
	}
	f := res.First()
	return string(f.Kind), f.Message
}
