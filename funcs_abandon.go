package main

import (
	"errors"

	"github.com/sirkon/csense/internal/csrules"
)

// errFindings stops the run with a failure status once findings are rendered.
var errFindings = errors.New("findings at failure severity")

// abandon checks if findings must fail the run. SeverityNone as the threshold never fails it.
func abandon(results []unitResult, threshold csrules.Severity) error {
	if threshold == csrules.SeverityNone {
		return nil
	}

	for _, r := range results {
		for _, f := range r.findings {
			if f.Severity >= threshold {
				return errFindings
			}
		}
	}

	return nil
}
