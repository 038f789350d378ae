package layout

import (
	"iter"
	"slices"
	"strings"
)

// Wrap breaks text into lines no wider than maxWidth using greedy word
// wrapping. Words are whitespace-delimited; a candidate line is measured
// before the word is appended, and the final partial line is always
// emitted. A single word wider than maxWidth is placed on its own line.
//
// The sequence is lazy and restartable: each range over it re-runs the
// wrap from the first word.
func Wrap(m Measurer, text string, font Font, maxWidth float64) iter.Seq[string] {
	return func(yield func(string) bool) {
		line := ""
		for _, word := range strings.Fields(text) {
			if line == "" {
				line = word
				continue
			}
			candidate := line + " " + word
			if m.MeasureText(candidate, font) > maxWidth {
				if !yield(line) {
					return
				}
				line = word
				continue
			}
			line = candidate
		}
		if line != "" {
			yield(line)
		}
	}
}

// WrapLines collects Wrap into a slice.
func WrapLines(m Measurer, text string, font Font, maxWidth float64) []string {
	return slices.Collect(Wrap(m, text, font, maxWidth))
}

// LineCount returns the number of lines text wraps to.
func LineCount(m Measurer, text string, font Font, maxWidth float64) int {
	n := 0
	for range Wrap(m, text, font, maxWidth) {
		n++
	}
	return n
}

// Truncate shortens text with a trailing ellipsis until it fits maxWidth.
func Truncate(m Measurer, text string, font Font, maxWidth float64) string {
	if m.MeasureText(text, font) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		s := strings.TrimSpace(string(runes[:n])) + "..."
		if m.MeasureText(s, font) <= maxWidth {
			return s
		}
	}
	return ""
}

// MonoMeasurer measures every rune as Ratio × font size. It stands in for
// real font metrics where only relative widths matter.
type MonoMeasurer struct {
	Ratio float64
}

// MeasureText implements Measurer.
func (m MonoMeasurer) MeasureText(text string, font Font) float64 {
	ratio := m.Ratio
	if ratio == 0 {
		ratio = 0.5
	}
	return float64(len([]rune(text))) * font.Size * ratio
}
