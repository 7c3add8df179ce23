package sanitize

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain title unchanged",
			input:    "My Holiday Video",
			expected: "My Holiday Video",
		},
		{
			name:     "windows reserved characters removed",
			input:    `What? A "Test": <Part 1/2> | Done*\`,
			expected: "What A Test Part 12  Done",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  padded title  ",
			expected: "padded title",
		},
		{
			name:     "empty input falls back to default",
			input:    "",
			expected: DefaultName,
		},
		{
			name:     "only reserved characters falls back to default",
			input:    `<>:"/\|?*`,
			expected: DefaultName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.expected {
				t.Errorf("Clean(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("a", 200) + `??` + strings.Repeat("b", 50)

	got := Clean(long)
	if n := len([]rune(got)); n != MaxNameLength {
		t.Errorf("Clean() length = %d, expected %d", n, MaxNameLength)
	}
	if strings.ContainsAny(got, `<>:"/\|?*`) {
		t.Errorf("Clean() = %q still contains reserved characters", got)
	}
}

func TestCleanTruncatesByRunes(t *testing.T) {
	long := strings.Repeat("é", MaxNameLength+10)

	got := Clean(long)
	if n := len([]rune(got)); n != MaxNameLength {
		t.Errorf("Clean() rune length = %d, expected %d", n, MaxNameLength)
	}
	if !strings.HasSuffix(got, "é") {
		t.Errorf("Clean() = %q ends with a broken rune", got)
	}
}
