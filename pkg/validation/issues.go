package validation

import (
	"fmt"
	"strings"
)

// Issue is a single problem found in a flow definition.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Report collects lint issues.
type Report struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// NewReport returns an empty, valid report.
func NewReport() *Report {
	return &Report{Valid: true}
}

// Add records an issue and marks the report invalid.
func (r *Report) Add(path, field, format string, args ...any) {
	if r == nil {
		return
	}
	r.Valid = false
	r.Issues = append(r.Issues, Issue{
		Path:    path,
		Field:   field,
		Message: strings.TrimSpace(fmt.Sprintf(format, args...)),
	})
}

// Err joins the issues into a single error, or returns nil when valid.
func (r *Report) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Errorf("validation: %s", strings.Join(parts, "; "))
}
