package store

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		data     string
		valid    bool
		wantPath string
	}{
		{
			name:   "empty list",
			format: FormatJSON,
			data:   "[]",
			valid:  true,
		},
		{
			name:   "empty file",
			format: FormatJSON,
			data:   "",
			valid:  true,
		},
		{
			name:   "valid task",
			format: FormatJSON,
			data:   `[{"id": 1, "description": "a", "status": "todo", "created_at": "2024-01-01T00:00:00Z"}]`,
			valid:  true,
		},
		{
			name:     "bad status",
			format:   FormatJSON,
			data:     `[{"id": 1, "description": "a", "status": "doing", "created_at": "2024-01-01T00:00:00Z"}]`,
			valid:    false,
			wantPath: "[0].status",
		},
		{
			name:     "missing description",
			format:   FormatJSON,
			data:     `[{"id": 1, "status": "todo", "created_at": "2024-01-01T00:00:00Z"}]`,
			valid:    false,
			wantPath: "[0]",
		},
		{
			name:     "negative id",
			format:   FormatJSON,
			data:     `[{"id": -1, "description": "a", "status": "todo", "created_at": "2024-01-01T00:00:00Z"}]`,
			valid:    false,
			wantPath: "[0].id",
		},
		{
			name:   "duplicate ids",
			format: FormatJSON,
			data: `[
				{"id": 1, "description": "a", "status": "todo", "created_at": "2024-01-01T00:00:00Z"},
				{"id": 1, "description": "b", "status": "done", "created_at": "2024-01-01T00:00:00Z"}]`,
			valid:    false,
			wantPath: "[1].id",
		},
		{
			name:   "not json",
			format: FormatJSON,
			data:   "{",
			valid:  false,
		},
		{
			name:   "valid yaml",
			format: FormatYAML,
			data: `- id: 1
  description: a
  status: in-progress
  created_at: "2024-01-01T00:00:00Z"
`,
			valid: true,
		},
		{
			name:   "yaml with bad status",
			format: FormatYAML,
			data: `- id: 2
  description: a
  status: later
  created_at: "2024-01-01T00:00:00Z"
`,
			valid:    false,
			wantPath: "[0].status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate([]byte(tt.data), tt.format)
			if result.Valid != tt.valid {
				t.Fatalf("Valid: got %v, want %v (errors: %v)", result.Valid, tt.valid, result.Errors)
			}
			if tt.valid {
				if len(result.Errors) != 0 {
					t.Errorf("expected no errors, got %v", result.Errors)
				}
				return
			}
			if len(result.Errors) == 0 {
				t.Fatal("expected errors")
			}
			if tt.wantPath == "" {
				return
			}
			found := false
			for _, err := range result.Errors {
				if ve, ok := err.(*ValidationError); ok && strings.HasPrefix(ve.Path, tt.wantPath) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error at %s, got %v", tt.wantPath, result.Errors)
			}
		})
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/0", "[0]"},
		{"/0/status", "[0].status"},
		{"#/12/created_at", "[12].created_at"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}

	for _, tt := range tests {
		if got := jsonPointerToPath(tt.ptr); got != tt.want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", tt.ptr, got, tt.want)
		}
	}
}
