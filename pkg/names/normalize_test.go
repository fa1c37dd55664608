package names

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"María", "maria"},
		{"JOSÉ", "jose"},
		{"Ñoño", "nono"},
		{"Juan Carlos", "juan carlos"},
		{"ANDRÉS", "andres"},
		{"", ""},
		{"simple", "simple"},
	}
	for _, tt := range tests {
		got := Normalize(tt.input)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStripAccents(t *testing.T) {
	if got := StripAccents("José"); got != "Jose" {
		t.Errorf("StripAccents(José) = %q, want Jose", got)
	}
	if got := StripAccents("maría inés"); got != "maria ines" {
		t.Errorf("StripAccents(maría inés) = %q, want maria ines", got)
	}
}

func TestFirstToken(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"juan carlos", "juan"},
		{"María Inés", "maria"},
		{"josé", "jose"},
		{"  juan  ", "juan"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		got := FirstToken(tt.input)
		if got != tt.want {
			t.Errorf("FirstToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("juan carlos"); got != "Juan Carlos" {
		t.Errorf("TitleCase(juan carlos) = %q, want Juan Carlos", got)
	}
	if got := TitleCase("maria"); got != "Maria" {
		t.Errorf("TitleCase(maria) = %q, want Maria", got)
	}
}
