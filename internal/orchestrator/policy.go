package orchestrator

import (
	"errors"
	"fmt"

	"github.com/beauthy/beauthy/internal/models"
)

// ErrorPolicy decides what happens when an application fails.
type ErrorPolicy int

const (
	// PolicyContinue logs each failure, carries on, and fails the run at the end.
	PolicyContinue ErrorPolicy = iota
	// PolicyFailFast stops at the first failure.
	PolicyFailFast
	// PolicyCollect carries on silently and reports every failure at the end.
	PolicyCollect
)

// String returns the string representation of ErrorPolicy
func (p ErrorPolicy) String() string {
	switch p {
	case PolicyContinue:
		return "continue"
	case PolicyFailFast:
		return "fail-fast"
	case PolicyCollect:
		return "collect"
	default:
		return "unknown"
	}
}

// ParseErrorPolicy parses continue, fail-fast or collect.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	for _, p := range []ErrorPolicy{PolicyContinue, PolicyFailFast, PolicyCollect} {
		if p.String() == s {
			return p, nil
		}
	}
	return PolicyContinue, models.NewError(models.ErrConfiguration,
		"unknown error policy %q (want continue, fail-fast or collect)", s)
}

// Report summarises one batch over the portal's applications.
type Report struct {
	Phase     string
	Processed int
	Updated   int
	Unmatched []string
	Failures  []error
}

// Failed reports whether any application failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Err returns nil when every application succeeded, otherwise an error
// wrapping all failures.
func (r *Report) Err() error {
	if !r.Failed() {
		return nil
	}
	return fmt.Errorf("%s: %d of %d applications failed: %w",
		r.Phase, len(r.Failures), r.Processed, errors.Join(r.Failures...))
}
