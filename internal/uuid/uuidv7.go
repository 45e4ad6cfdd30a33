// Package uuid generates and checks the identifiers used as primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a time-ordered UUIDv7 string. Ordering by id therefore follows
// creation order, which keeps ledger and expense listings stable.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse normalizes s to the canonical lowercase form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid reports whether s is a well-formed UUID of any version.
func IsValid(s string) bool {
	return googleuuid.Validate(s) == nil
}
