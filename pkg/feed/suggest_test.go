package feed

import "testing"

func TestSuggest(t *testing.T) {
	vocab := []string{"color", "title", "price", "image_link"}

	tests := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{"one edit away", "colr", "color", true},
		{"two edits away", "titel", "title", true},
		{"far from everything", "quantum_flux", "", false},
		{"exact match excluded", "price", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.key, vocab)
			if ok != tt.wantOK {
				t.Fatalf("Suggest(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("Suggest(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSuggest_DeterministicOnTies(t *testing.T) {
	// "ax" is distance 1 from both "ay" and "az"; the earlier candidate wins.
	got, ok := Suggest("ax", []string{"ay", "az"})
	if !ok || got != "ay" {
		t.Fatalf("Suggest tie-break = %q (%v), want %q", got, ok, "ay")
	}
}
