package features

import (
	"errors"
	"testing"
)

func TestNewLabelEncoder_Codes(t *testing.T) {
	enc, err := NewLabelEncoder("city", []string{"Bengaluru", "Delhi", "Mumbai"})
	if err != nil {
		t.Fatalf("NewLabelEncoder() error = %v", err)
	}
	tests := []struct {
		label string
		want  int
	}{
		{"Bengaluru", 0},
		{"Delhi", 1},
		{"Mumbai", 2},
	}
	for _, tt := range tests {
		got, err := enc.Encode(tt.label)
		if err != nil {
			t.Fatalf("Encode(%q) error = %v", tt.label, err)
		}
		if got != tt.want {
			t.Errorf("Encode(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestLabelEncoder_UnknownLabel(t *testing.T) {
	enc, err := NewLabelEncoder("city", []string{"Delhi"})
	if err != nil {
		t.Fatalf("NewLabelEncoder() error = %v", err)
	}
	for _, label := range []string{"Atlantis", "", "delhi"} {
		code, err := enc.Encode(label)
		if !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("Encode(%q) error = %v, want ErrUnknownCategory", label, err)
		}
		if code != 0 {
			t.Errorf("Encode(%q) code = %d, want 0 alongside error", label, code)
		}
		if enc.Contains(label) {
			t.Errorf("Contains(%q) = true, want false", label)
		}
	}
}

func TestNewLabelEncoder_RejectsBadVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		classes []string
	}{
		{"empty", nil},
		{"duplicate", []string{"a", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLabelEncoder("location", tt.classes); err == nil {
				t.Fatal("NewLabelEncoder() expected error, got nil")
			}
		})
	}
}

func TestLabelEncoder_ClassesIsCopy(t *testing.T) {
	enc, _ := NewLabelEncoder("city", []string{"a", "b"})
	got := enc.Classes()
	got[0] = "mutated"
	if enc.Classes()[0] != "a" {
		t.Error("Classes() exposes internal slice")
	}
}
