package domain

import "strings"

// ValidateRecord checks that a record carries the fields the prompt layout
// depends on. Medium and Setting may be empty; Name and Description may not.
func ValidateRecord(r Record) error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name", r.Name, ErrMissingField)
	}
	if strings.TrimSpace(r.Description) == "" {
		return NewValidationError("description", r.Description, ErrMissingField)
	}
	return nil
}
