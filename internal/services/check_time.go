package services

import (
	"fmt"

	"irp-verifier/internal/domain"
)

// ScaleFunc converts a benchmark score into the multiplier applied to an
// instance's base time limit. It must be monotonically decreasing in the
// score: a machine rated faster than the reference gets less wall-clock
// time, a slower one gets more.
type ScaleFunc func(score float64) float64

// ReferenceScore is the single-thread mark of the reference machine that
// published base time limits are calibrated against.
const ReferenceScore = 2000.0

// ReferenceRatio is the default scaling, a plain inverse proportion to the
// reference machine's mark.
func ReferenceRatio(score float64) float64 {
	return ReferenceScore / score
}

// CheckTime evaluates a solution's reported computation time against the
// scaled budget. It returns the allowed limit in seconds alongside any
// TimeLimitError. Equality passes: only exceeding the limit fails. The
// comparison uses the raw values; the two-decimal rendering in diagnostics
// is presentation only.
func CheckTime(baseLimit, score, reported float64, scale ScaleFunc) (float64, error) {
	if scale == nil {
		scale = ReferenceRatio
	}
	if score <= 0 {
		return 0, fmt.Errorf("check time: benchmark score must be positive, got %g", score)
	}

	allowed := baseLimit * scale(score)
	if reported > allowed {
		return allowed, &domain.TimeLimitError{Reported: reported, Allowed: allowed}
	}
	return allowed, nil
}
