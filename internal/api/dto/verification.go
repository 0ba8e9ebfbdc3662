package dto

// VerificationRequest carries an instance file and a candidate solution
// file inline. BenchmarkScore, when present, bypasses the mark table lookup
// for the time check.
type VerificationRequest struct {
	InstanceName   string   `json:"instance_name"`
	Instance       string   `json:"instance"`
	Solution       string   `json:"solution"`
	BenchmarkScore *float64 `json:"benchmark_score"`
}

// VerificationItem mirrors one element of the verified stream: an
// annotation passed through, or a per-solution verdict.
type VerificationItem struct {
	Kind        string `json:"kind"` // "annotation", "success" or "failure"
	FailureKind string `json:"failure_kind,omitempty"`
	Message     string `json:"message"`
}

type VerificationResponse struct {
	Instance  string             `json:"instance"`
	Solutions int                `json:"solutions"`
	Items     []VerificationItem `json:"items"`
}
