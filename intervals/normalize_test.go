package intervals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chroniclehq/chroniclebackend/apperrors"
)

func TestNormalizeRejectsEmptySet(t *testing.T) {
	_, err := Normalize(nil, 1900, 1950)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	assert.Equal(t, apperrors.ReasonEmptyIntervalSet, apperrors.ReasonOf(err))

	_, err = Normalize([]Interval{}, 1900, 1950)
	require.Error(t, err)
	assert.Equal(t, apperrors.ReasonEmptyIntervalSet, apperrors.ReasonOf(err))
}

func TestNormalizeRejectsInvalidIntervals(t *testing.T) {
	cases := []struct {
		name string
		set  []Interval
	}{
		{"zero country", []Interval{{CountryID: 0, StartYear: 1900, EndYear: 1950}}},
		{"negative country", []Interval{{CountryID: -3, StartYear: 1900, EndYear: 1950}}},
		{"start after end", []Interval{{CountryID: 1, StartYear: 1950, EndYear: 1900}}},
		{
			"second of two invalid",
			[]Interval{
				{CountryID: 1, StartYear: 1900, EndYear: 1920},
				{CountryID: 2, StartYear: 1940, EndYear: 1930},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.set, 1900, 1950)
			require.Error(t, err)
			assert.Equal(t, apperrors.ReasonInvalidInterval, apperrors.ReasonOf(err))
		})
	}
}

func TestNormalizeExpandsSingleInterval(t *testing.T) {
	// a lone interval covers the full lifespan regardless of its own bounds
	got, err := Normalize([]Interval{{CountryID: 7, StartYear: 1925, EndYear: 1930}}, 1900, 1950)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Interval{CountryID: 7, StartYear: 1900, EndYear: 1950}, got[0])
}

func TestNormalizeSingleInvalidIntervalStillRejected(t *testing.T) {
	// validity is checked before the single-interval expansion
	_, err := Normalize([]Interval{{CountryID: 0, StartYear: 1900, EndYear: 1950}}, 1900, 1950)
	require.Error(t, err)
	assert.Equal(t, apperrors.ReasonInvalidInterval, apperrors.ReasonOf(err))
}

func TestNormalizeSortsByStartYear(t *testing.T) {
	got, err := Normalize([]Interval{
		{CountryID: 2, StartYear: 1920, EndYear: 1950},
		{CountryID: 1, StartYear: 1900, EndYear: 1920},
	}, 1900, 1950)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].CountryID)
	assert.Equal(t, int64(2), got[1].CountryID)
}

func TestNormalizeAllowsSharedBoundary(t *testing.T) {
	got, err := Normalize([]Interval{
		{CountryID: 1, StartYear: 1900, EndYear: 1920},
		{CountryID: 2, StartYear: 1920, EndYear: 1950},
	}, 1900, 1950)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNormalizeAllowsOneYearTransition(t *testing.T) {
	// 1920 -> 1921 is a transition, not a gap
	got, err := Normalize([]Interval{
		{CountryID: 1, StartYear: 1900, EndYear: 1920},
		{CountryID: 2, StartYear: 1921, EndYear: 1950},
	}, 1900, 1950)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNormalizeRejectsCoverageGap(t *testing.T) {
	_, err := Normalize([]Interval{
		{CountryID: 1, StartYear: 1900, EndYear: 1920},
		{CountryID: 2, StartYear: 1922, EndYear: 1950},
	}, 1900, 1950)
	require.Error(t, err)
	assert.Equal(t, apperrors.ReasonCoverageGap, apperrors.ReasonOf(err))
}

func TestNormalizeRejectsOverlap(t *testing.T) {
	_, err := Normalize([]Interval{
		{CountryID: 1, StartYear: 1900, EndYear: 1925},
		{CountryID: 2, StartYear: 1920, EndYear: 1950},
	}, 1900, 1950)
	require.Error(t, err)
	assert.Equal(t, apperrors.ReasonOverlappingIntervals, apperrors.ReasonOf(err))
}

func TestNormalizeRejectsIncompleteCoverage(t *testing.T) {
	t.Run("starts after birth", func(t *testing.T) {
		_, err := Normalize([]Interval{
			{CountryID: 1, StartYear: 1905, EndYear: 1920},
			{CountryID: 2, StartYear: 1920, EndYear: 1950},
		}, 1900, 1950)
		require.Error(t, err)
		assert.Equal(t, apperrors.ReasonIncompleteCoverage, apperrors.ReasonOf(err))
	})

	t.Run("ends before death", func(t *testing.T) {
		_, err := Normalize([]Interval{
			{CountryID: 1, StartYear: 1900, EndYear: 1920},
			{CountryID: 2, StartYear: 1920, EndYear: 1945},
		}, 1900, 1950)
		require.Error(t, err)
		assert.Equal(t, apperrors.ReasonIncompleteCoverage, apperrors.ReasonOf(err))
	})
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	input := []Interval{
		{CountryID: 2, StartYear: 1920, EndYear: 1950},
		{CountryID: 1, StartYear: 1900, EndYear: 1920},
	}
	_, err := Normalize(input, 1900, 1950)
	require.NoError(t, err)

	// order and bounds of the caller's slice are untouched
	assert.Equal(t, int64(2), input[0].CountryID)
	assert.Equal(t, int64(1), input[1].CountryID)

	single := []Interval{{CountryID: 3, StartYear: 1910, EndYear: 1912}}
	_, err = Normalize(single, 1900, 1950)
	require.NoError(t, err)
	assert.Equal(t, 1910, single[0].StartYear)
	assert.Equal(t, 1912, single[0].EndYear)
}

func TestNormalizeSameYearLifespan(t *testing.T) {
	got, err := Normalize([]Interval{{CountryID: 1, StartYear: 1900, EndYear: 1900}}, 1900, 1900)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1900, got[0].StartYear)
	assert.Equal(t, 1900, got[0].EndYear)
}
