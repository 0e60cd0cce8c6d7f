package model

import "strings"

// Credentials carries the login fields collected from the user. Students
// use Name and AccessCode; every other role uses Email and Password.
type Credentials struct {
	Email      string `json:"email,omitempty"`
	Password   string `json:"password,omitempty"`
	Name       string `json:"name,omitempty"`
	AccessCode string `json:"accessCode,omitempty"`
}

// Validate checks that the fields required by role are present.
func (c Credentials) Validate(role Role) *APIError {
	if !role.Valid() {
		return NewValidationError("Please select a role", FieldError{Field: "role", Message: "required"})
	}
	var details []FieldError
	if role.UsesAccessCode() {
		if strings.TrimSpace(c.Name) == "" {
			details = append(details, FieldError{Field: "name", Message: "required"})
		}
		if strings.TrimSpace(c.AccessCode) == "" {
			details = append(details, FieldError{Field: "accessCode", Message: "required"})
		}
	} else {
		if strings.TrimSpace(c.Email) == "" {
			details = append(details, FieldError{Field: "email", Message: "required"})
		}
		if c.Password == "" {
			details = append(details, FieldError{Field: "password", Message: "required"})
		}
	}
	if len(details) > 0 {
		return NewValidationError("Please fill in all required fields", details...)
	}
	return nil
}
