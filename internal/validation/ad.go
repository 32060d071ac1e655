package validation

import "strings"

// FieldError ties a validation failure to the input field that caused it so
// handlers can return field-level messages.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors collects every failure from one validation pass.
type FieldErrors []*FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateAdTitle checks the ad title constraints
func ValidateAdTitle(title string) *FieldError {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return &FieldError{Field: "title", Message: "title is required"}
	}

	if len(trimmed) > 120 {
		return &FieldError{Field: "title", Message: "title is too long (max 120 characters)"}
	}

	return nil
}

// ValidateAdDescription checks the ad description constraints
func ValidateAdDescription(description string) *FieldError {
	trimmed := strings.TrimSpace(description)

	if trimmed == "" {
		return &FieldError{Field: "description", Message: "description is required"}
	}

	if len(trimmed) > 5000 {
		return &FieldError{Field: "description", Message: "description is too long (max 5000 characters)"}
	}

	return nil
}
