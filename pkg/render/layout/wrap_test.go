package layout

import (
	"slices"
	"strings"
	"testing"
)

var mono = MonoMeasurer{Ratio: 0.5}

func TestWrap(t *testing.T) {
	font := F(Regular, 10) // 5pt per rune

	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{
			name:     "fits on one line",
			text:     "full wrap",
			maxWidth: 500,
			want:     []string{"full wrap"},
		},
		{
			name:     "width of a single word puts each word on its own line",
			text:     "abcd efgh ijkl",
			maxWidth: 20,
			want:     []string{"abcd", "efgh", "ijkl"},
		},
		{
			name:     "greedy fill",
			text:     "aa bb cc dd",
			maxWidth: 25,
			want:     []string{"aa bb", "cc dd"},
		},
		{
			name:     "overlong word on its own line",
			text:     "a supercalifragilistic b",
			maxWidth: 20,
			want:     []string{"a", "supercalifragilistic", "b"},
		},
		{
			name:     "collapses whitespace",
			text:     "  one \n\t two  ",
			maxWidth: 500,
			want:     []string{"one two"},
		},
		{
			name:     "empty text",
			text:     "",
			maxWidth: 100,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapLines(mono, tt.text, font, tt.maxWidth)
			if !slices.Equal(got, tt.want) {
				t.Errorf("WrapLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapRestartable(t *testing.T) {
	seq := Wrap(mono, "one two three four five", F(Regular, 10), 40)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second pass = %q, want %q", second, first)
	}

	// stopping early must not disturb a later full pass
	for range seq {
		break
	}
	if got := slices.Collect(seq); !slices.Equal(got, first) {
		t.Errorf("after early stop = %q, want %q", got, first)
	}
}

func TestWrapNeverExceedsWidthExceptSingleWords(t *testing.T) {
	font := F(Regular, 8)
	text := "Full vehicle wrap with premium cast vinyl and gloss overlaminate, including door jambs and mirror caps"
	for _, w := range []float64{30, 60, 120, 240} {
		for _, line := range WrapLines(mono, text, font, w) {
			if mono.MeasureText(line, font) > w && strings.Contains(line, " ") {
				t.Errorf("width %v: line %q exceeds max", w, line)
			}
		}
	}
}

func TestLineCount(t *testing.T) {
	font := F(Regular, 10)
	if got := LineCount(mono, "abcd efgh ijkl", font, 20); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}
	if got := LineCount(mono, "", font, 20); got != 0 {
		t.Errorf("LineCount(empty) = %d, want 0", got)
	}
}

func TestTruncate(t *testing.T) {
	font := F(Regular, 10)
	if got := Truncate(mono, "short", font, 100); got != "short" {
		t.Errorf("Truncate() = %q, want unchanged", got)
	}
	got := Truncate(mono, "a very long label", font, 50)
	if mono.MeasureText(got, font) > 50 {
		t.Errorf("Truncate() = %q, still wider than 50", got)
	}
	if len(got) < 3 || got[len(got)-3:] != "..." {
		t.Errorf("Truncate() = %q, want trailing ellipsis", got)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#0e1a2b", Color{0x0e, 0x1a, 0x2b}, false},
		{"aa6a66", Color{0xaa, 0x6a, 0x66}, false},
		{"#fff", Color{0xff, 0xff, 0xff}, false},
		{"#12345", Color{}, true},
		{"#zzzzzz", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if got := Hex("#3a8a5c").String(); got != "#3a8a5c" {
		t.Errorf("String() = %q, want #3a8a5c", got)
	}
}
