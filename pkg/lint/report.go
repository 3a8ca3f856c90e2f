package lint

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Severity classifies a finding.
type Severity string

// Finding severities
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single style-guide violation.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// String renders the finding in file:line rule severity form.
func (f Finding) String() string {
	location := f.File
	if f.Line > 0 {
		location = fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return fmt.Sprintf("%s: [%s] %s (%s)", location, f.Severity, f.Message, f.Rule)
}

// Report is the aggregated result of a lint run.
type Report struct {
	Findings         []Finding `json:"findings"`
	DocumentsChecked int       `json:"documentsChecked"`
}

// Sort orders findings by file, then line, then rule.
func (r *Report) Sort() {
	sort.Slice(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Rule < b.Rule
	})
}

// Errors returns the number of error-severity findings.
func (r *Report) Errors() int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			count++
		}
	}
	return count
}

// Warnings returns the number of warning-severity findings.
func (r *Report) Warnings() int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// HasErrors reports whether any error-severity finding is present.
func (r *Report) HasErrors() bool {
	return r.Errors() > 0
}

// Err collapses the error-severity findings into a single error, or nil when
// the report is clean.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			result = multierror.Append(result, errors.New(f.String()))
		}
	}
	return result.ErrorOrNil()
}

// JSON returns the report as indented JSON.
func (r *Report) JSON() (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal report")
	}
	return string(out), nil
}
