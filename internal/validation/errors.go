package validation

import (
	"sort"
	"strings"

	apperrors "github.com/kapu/collabhub-go/pkg/errors"
)

// Errors maps a field name to its message. An empty map means the form is valid.
type Errors map[string]string

// Check records msg under field when msg is non-empty.
func (e Errors) Check(field, msg string) {
	if msg != "" {
		e[field] = msg
	}
}

func (e Errors) OK() bool {
	return len(e) == 0
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e Errors) Error() string {
	return "invalid fields: " + strings.Join(e.Fields(), ", ")
}

// Err converts a failed result into a ValidationError, or nil when valid.
func (e Errors) Err() error {
	if e.OK() {
		return nil
	}
	fields := make(map[string]string, len(e))
	for k, v := range e {
		fields[k] = v
	}
	return apperrors.NewValidationError("step validation failed", fields)
}
