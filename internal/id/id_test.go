package id

import "testing"

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		got := GenerateID()
		if len(got) != 16 {
			t.Fatalf("GenerateID() = %q, want 16 characters", got)
		}
		if seen[got] {
			t.Fatalf("GenerateID() repeated %q", got)
		}
		seen[got] = true
	}
}
