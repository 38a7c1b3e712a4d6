// Package grapheme measures and fits emoji text into fixed terminal cells.
package grapheme

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns the grapheme clusters of text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	g := uniseg.NewGraphemes(text)
	n := 0
	for g.Next() {
		n++
	}
	return n
}

// Width returns the terminal cell width of text.
//
// Emoji sequences (ZWJ families, flags, skin tones) occupy two cells in
// terminals that support them; runewidth sums the parts, so each cluster is
// measured on its own with uniseg, falling back to runewidth when uniseg
// reports zero.
func Width(text string) int {
	total := 0
	for _, cluster := range Split(text) {
		total += clusterWidth(cluster)
	}
	return total
}

func clusterWidth(cluster string) int {
	w := uniseg.StringWidth(cluster)
	if w <= 0 {
		w = runewidth.StringWidth(cluster)
	}
	if w < 0 {
		w = 0
	}
	return w
}

// Fit truncates text to at most width cells without splitting a cluster,
// then pads it with spaces to exactly width cells.
func Fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	used := 0
	for _, cluster := range Split(text) {
		w := clusterWidth(cluster)
		if used+w > width {
			break
		}
		sb.WriteString(cluster)
		used += w
	}
	if used < width {
		sb.WriteString(strings.Repeat(" ", width-used))
	}
	return sb.String()
}

// Center places text in the middle of width cells, truncating when it does
// not fit.
func Center(text string, width int) string {
	w := Width(text)
	if w >= width {
		return Fit(text, width)
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-w-left)
}
