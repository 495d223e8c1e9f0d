package history

import (
	"slices"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Format
	}{
		{
			name:  "zsh extended history",
			lines: []string{": 1746142083:0;cargo build --workspace --profile release"},
			want:  FormatExtended,
		},
		{
			name:  "one extended line among others",
			lines: []string{"ls", "pwd", ": 1746142083:12;make test"},
			want:  FormatExtended,
		},
		{
			name:  "bash with timestamps",
			lines: []string{"#1746142083", "cargo build --workspace --profile release"},
			want:  FormatPlain,
		},
		{
			name:  "bash without timestamps",
			lines: []string{"cargo build", "cargo test"},
			want:  FormatPlain,
		},
		{
			name:  "short extended timestamp is not extended",
			lines: []string{": 1234567:0;ls"},
			want:  FormatPlain,
		},
		{
			name:  "missing space after colon",
			lines: []string{":1746142083:0;ls"},
			want:  FormatPlain,
		},
		{
			name:  "empty file",
			lines: nil,
			want:  FormatPlain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.lines)
			if got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", "", false},
		{"auto", "", false},
		{"plain", FormatPlain, false},
		{"bash", FormatPlain, false},
		{"Extended", FormatExtended, false},
		{"zsh", FormatExtended, false},
		{"fish", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single newline", "\n", []string{""}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"blank line kept", "a\n\nb\n", []string{"a", "", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.content)
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitLines(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
