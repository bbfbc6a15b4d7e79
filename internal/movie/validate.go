package movie

import (
	"fmt"
	"strconv"
	"time"

	"nfogen/internal/nfoerr"
)

const minYear = 1900

// Validate checks field rules against the record and returns every
// violation found. It never mutates the record.
func Validate(r *Record) []string {
	var violations []string

	if r.Title == "" {
		violations = append(violations, "title is required")
	}

	if r.Year != "" {
		y, err := strconv.Atoi(r.Year)
		if err != nil || len(r.Year) != 4 {
			violations = append(violations, fmt.Sprintf("year %q must be 4 digits", r.Year))
		} else if y < minYear || y > time.Now().Year()+1 {
			violations = append(violations, fmt.Sprintf("year %d out of range %d-%d", y, minYear, time.Now().Year()+1))
		}
	}

	if r.Runtime != "" {
		if n, err := strconv.Atoi(r.Runtime); err != nil || n < 0 {
			violations = append(violations, fmt.Sprintf("runtime %q must be a non-negative minute count", r.Runtime))
		}
	}

	if r.Premiered != "" {
		if _, err := time.Parse("2006-01-02", r.Premiered); err != nil {
			violations = append(violations, fmt.Sprintf("premiered %q must be YYYY-MM-DD", r.Premiered))
		}
	}

	for i, a := range r.Actors {
		if a.Name == "" {
			violations = append(violations, fmt.Sprintf("actor %d has no name", i+1))
		}
	}

	for _, rt := range r.Ratings {
		if rt.Value < 0 || rt.Value > 10 {
			violations = append(violations, fmt.Sprintf("rating %q value %.1f out of range 0-10", rt.Name, rt.Value))
		}
		if rt.Votes < 0 {
			violations = append(violations, fmt.Sprintf("rating %q has negative votes", rt.Name))
		}
	}

	defaults := 0
	for _, id := range r.UniqueIDs {
		if id.Default {
			defaults++
		}
	}
	if defaults > 1 {
		violations = append(violations, "more than one unique id flagged default")
	}

	return violations
}

// ValidationError wraps the violation list as a kinded error, or returns
// nil when the record passes.
func ValidationError(r *Record, site, url string) error {
	violations := Validate(r)
	if len(violations) == 0 {
		return nil
	}
	return &nfoerr.Error{
		Kind:       nfoerr.KindValidation,
		Site:       site,
		URL:        url,
		Violations: violations,
	}
}
