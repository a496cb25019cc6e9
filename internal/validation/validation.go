// Package validation holds the client-side rules applied to API key forms
// before they are submitted, and again by the server before they are stored.
package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	domainPattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)
	apiKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
)

// ValidPermissions lists the grantable permissions in display order.
var ValidPermissions = []string{"read", "write", "delete", "admin"}

const minAPIKeyLength = 16

// ValidateDomain reports whether domain looks like a hostname with a TLD.
func ValidateDomain(domain string) bool {
	return domainPattern.MatchString(domain)
}

// ValidateAPIKey reports whether key has a plausible secret format:
// at least 16 characters drawn from letters, digits, '_', '-' and '.'.
func ValidateAPIKey(key string) bool {
	if len(key) < minAPIKeyLength {
		return false
	}
	return apiKeyPattern.MatchString(key)
}

// ValidatePermissions reports whether every permission is known.
func ValidatePermissions(permissions []string) bool {
	for _, p := range permissions {
		if !slices.Contains(ValidPermissions, p) {
			return false
		}
	}
	return true
}

// Errors maps a form field to its validation message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for _, f := range []string{"name", "key", "domain", "service", "permissions"} {
		if msg, ok := e[f]; ok {
			fields = append(fields, msg)
		}
	}
	return strings.Join(fields, "; ")
}

// ValidateKeyForm checks the fields submitted by the add and edit forms.
// It returns nil when the form is valid.
func ValidateKeyForm(name, key, domain string, permissions []string) error {
	errs := Errors{}
	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(key) == "" {
		errs["key"] = "API key is required"
	}
	if !ValidateDomain(domain) {
		errs["domain"] = fmt.Sprintf("Invalid domain format: %q", domain)
	}
	if !ValidatePermissions(permissions) {
		errs["permissions"] = "Permissions must be a subset of read, write, delete, admin"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
