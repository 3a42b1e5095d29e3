package typescript

import (
	"testing"
)

func TestValidDeclarationName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Dap", true},
		{"_private", true},
		{"$dollar", true},
		{"café", true},
		{"Dap2", true},
		{"", false},
		{"2Dap", false},
		{"my-ns", false},
		{"my.ns", false},
		{"class", false},
		{"interface", false},
		{"default", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidDeclarationName(tt.input); got != tt.want {
				t.Errorf("ValidDeclarationName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPropertyName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"threadId", "threadId"},
		{"__restart", "__restart"},
		{"type", "type"},
		{"default", "default"},
		{"my-field", `"my-field"`},
		{"has space", `"has space"`},
		{"1st", `"1st"`},
		{"", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := propertyName(tt.input); got != tt.want {
				t.Errorf("propertyName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
