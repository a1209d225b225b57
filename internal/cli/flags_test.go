package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogLevel", flags.LogLevel, "warn"},
		{"Home", flags.Home, ""},
		{"Dir", flags.Dir, ""},
		{"Glossary", flags.Glossary, ""},
		{"SourceLanguage", flags.SourceLanguage, ""},
		{"TargetLanguage", flags.TargetLanguage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Verbose", flags.Verbose},
		{"NoRegister", flags.NoRegister},
		{"Force", flags.Force},
		{"Global", flags.Global},
		{"Rebuild", flags.Rebuild},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s should default to false", tt.name)
			}
		})
	}
}
