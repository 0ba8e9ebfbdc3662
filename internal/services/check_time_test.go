package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"irp-verifier/internal/domain"
)

func TestCheckTimeExceedsScaledLimit(t *testing.T) {
	// 1800s base on a machine rated 2362 against the reference 2000
	// allows 1524.1320... seconds, rendered with two decimals.
	allowed, err := CheckTime(1800, 2362, 1612.42, nil)
	require.InDelta(t, 1524.1320914479, allowed, 1e-6)
	require.EqualError(t, err,
		"Time verification error: computation time of 1612.42 seconds exceeds time limit of 1524.13 seconds")

	var terr *domain.TimeLimitError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, 1612.42, terr.Reported)
	require.Equal(t, allowed, terr.Allowed)
}

func TestCheckTimeEqualityPasses(t *testing.T) {
	allowed, err := CheckTime(1800, ReferenceScore, 1800, nil)
	require.NoError(t, err)
	require.Equal(t, 1800.0, allowed)

	_, err = CheckTime(1800, ReferenceScore, 1800.0001, nil)
	require.Error(t, err)
}

func TestCheckTimeMonotoneInScore(t *testing.T) {
	fast, err := CheckTime(1800, 4000, 0, nil)
	require.NoError(t, err)
	slow, err := CheckTime(1800, 1000, 0, nil)
	require.NoError(t, err)

	require.Equal(t, 900.0, fast)
	require.Equal(t, 3600.0, slow)
	require.Less(t, fast, slow)
}

func TestCheckTimeRejectsNonPositiveScore(t *testing.T) {
	_, err := CheckTime(1800, 0, 100, nil)
	require.EqualError(t, err, "check time: benchmark score must be positive, got 0")

	var terr *domain.TimeLimitError
	require.False(t, errors.As(err, &terr))
}

func TestCheckTimeCustomScale(t *testing.T) {
	double := func(float64) float64 { return 2 }

	allowed, err := CheckTime(1800, 500, 3600, double)
	require.NoError(t, err)
	require.Equal(t, 3600.0, allowed)

	allowed, err = CheckTime(1800, 500, 3601, double)
	require.Error(t, err)
	require.Equal(t, 3600.0, allowed)
}
