package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "weight", false},
		{"display name", "viewColor", false},
		{"with spaces", "edge weight", false},
		{"unicode", "größe", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidInput {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateSnapshotName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "baseline", false},
		{"with dash", "before-import", false},
		{"with dot", "v1.2", false},

		{"empty", "", true},
		{"traversal", "../etc", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"leading dot", ".hidden", true},
		{"space", "two words", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSnapshotName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSnapshotName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
