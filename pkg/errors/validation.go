package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds property, attribute and snapshot names.
const maxNameLength = 256

// ValidateName validates a property or attribute name.
//
// The rules are conservative so names survive every snapshot backend:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 256 bytes
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// snapshotNameRegex matches names usable as file and key components.
var snapshotNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSnapshotName validates a snapshot name used as a store key.
// In addition to [ValidateName], it rejects path separators and traversal
// sequences.
func ValidateSnapshotName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "snapshot name contains invalid characters: %q", pattern)
		}
	}
	if !snapshotNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid snapshot name: %q", name)
	}
	return nil
}
