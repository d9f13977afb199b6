package employee

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("employee not found")
	ErrDocTypeInvalid = errors.New("document type not allowed for this project")
	ErrNoDocument     = errors.New("no document of this type on file")
)

// FieldIssue describes one rejected field. Required marks a field that was
// absent entirely, as opposed to present but malformed.
type FieldIssue struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Required bool   `json:"required,omitempty"`
}

// ValidationError carries field-level issues for the 400 response body.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s %s", issue.Field, issue.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
