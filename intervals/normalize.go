// Package intervals validates and normalizes the life-period sets attached to
// person records. It is pure: every input either normalizes or yields exactly
// one of the named validation rejections.
package intervals

import (
	"fmt"
	"sort"

	"github.com/chroniclehq/chroniclebackend/apperrors"
)

// Interval is one country/time-span triple of a person's life partition.
type Interval struct {
	CountryID int64 `json:"country_id"`
	StartYear int   `json:"start_year"`
	EndYear   int   `json:"end_year"`
}

// Normalize turns an unordered interval set into the exact partition of
// [birthYear, deathYear] that will replace a person's stored life periods.
//
// Rules, in order:
//  1. the set must be non-empty
//  2. every triple needs a positive country and startYear <= endYear
//  3. a single triple is expanded to the full lifespan, whatever its bounds
//  4. the set is sorted by startYear, ties broken by endYear
//  5. the first interval must reach birthYear and the last deathYear
//  6. adjacent intervals may share a boundary year but must neither overlap
//     beyond it nor leave a gap of more than one year transition
//
// The input slice is never mutated.
func Normalize(set []Interval, birthYear, deathYear int) ([]Interval, error) {
	if len(set) == 0 {
		return nil, apperrors.Validation(apperrors.ReasonEmptyIntervalSet, "at least one life period is required")
	}

	normalized := make([]Interval, len(set))
	copy(normalized, set)

	for i, iv := range normalized {
		if iv.CountryID <= 0 {
			return nil, apperrors.ValidationField(apperrors.ReasonInvalidInterval, "country_id",
				fmt.Sprintf("life period %d has invalid country %d", i+1, iv.CountryID))
		}
		if iv.StartYear > iv.EndYear {
			return nil, apperrors.ValidationField(apperrors.ReasonInvalidInterval, "start_year",
				fmt.Sprintf("life period %d starts in %d after it ends in %d", i+1, iv.StartYear, iv.EndYear))
		}
	}

	// a single-country life always spans the whole lifespan
	if len(normalized) == 1 {
		normalized[0].StartYear = birthYear
		normalized[0].EndYear = deathYear
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		if normalized[i].StartYear != normalized[j].StartYear {
			return normalized[i].StartYear < normalized[j].StartYear
		}
		return normalized[i].EndYear < normalized[j].EndYear
	})

	first := normalized[0]
	last := normalized[len(normalized)-1]
	if first.StartYear > birthYear {
		return nil, apperrors.Validation(apperrors.ReasonIncompleteCoverage,
			fmt.Sprintf("life periods start in %d, after birth year %d", first.StartYear, birthYear))
	}
	if last.EndYear < deathYear {
		return nil, apperrors.Validation(apperrors.ReasonIncompleteCoverage,
			fmt.Sprintf("life periods end in %d, before death year %d", last.EndYear, deathYear))
	}

	for i := 1; i < len(normalized); i++ {
		prev := normalized[i-1]
		cur := normalized[i]
		if cur.StartYear < prev.EndYear {
			return nil, apperrors.Validation(apperrors.ReasonOverlappingIntervals,
				fmt.Sprintf("life period starting %d overlaps the one ending %d", cur.StartYear, prev.EndYear))
		}
		if cur.StartYear > prev.EndYear+1 {
			return nil, apperrors.Validation(apperrors.ReasonCoverageGap,
				fmt.Sprintf("gap between %d and %d leaves years uncovered", prev.EndYear, cur.StartYear))
		}
	}

	return normalized, nil
}
