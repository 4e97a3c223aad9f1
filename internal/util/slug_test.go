package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"Q3 Roadmap", "q3-roadmap"},
		{"Sprint: week 12", "sprint-week-12"},
		{"Release (v2)", "release-v2"},
		{"Multiple   spaces", "multiple-spaces"},
		{"Already--hyphenated", "already-hyphenated"},
		{"  Leading spaces", "leading-spaces"},
		{"Café backlog", "cafe-backlog"},
		{"Résumé updates", "resume-updates"},
		{"", ""},
		{"---", ""},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugify_Unicode(t *testing.T) {
	tests := map[string]string{
		"Ünïcödé Board": "unicode-board",
		"naïve / plan":  "naive-plan",
	}
	for input, want := range tests {
		if got := Slugify(input); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}
