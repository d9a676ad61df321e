// ABOUTME: Width-aware row formatting for history entries
// ABOUTME: Truncates action names on grapheme boundaries using display cell widths

package history

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// FormatRow renders an entry as a single line exactly width cells wide:
// stack marker, label, then the task count right-aligned. Labels that do not
// fit are truncated with an ellipsis.
func FormatRow(e Entry, width int) string {
	marker := "↶"
	if e.Stack == RedoStack {
		marker = "↷"
	}
	head := fmt.Sprintf("%s %2d ", marker, e.Depth)
	tail := fmt.Sprintf(" %d", e.Tasks)

	room := width - VisibleWidth(head) - VisibleWidth(tail)
	if room <= 0 {
		return pad(Truncate(head+e.Label(), width), width)
	}
	return head + pad(Truncate(e.Label(), room), room) + tail
}

func pad(s string, width int) string {
	if n := width - VisibleWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// VisibleWidth returns the number of terminal cells s occupies.
func VisibleWidth(s string) int {
	w := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		w += clusterWidth(cluster)
	}
	return w
}

// Truncate shortens s to at most width cells, ending in an ellipsis when
// anything was cut. Grapheme clusters are never split.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if VisibleWidth(s) <= width {
		return s
	}
	limit := width - runewidth.StringWidth(ellipsis)
	var b strings.Builder
	w := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		cw := clusterWidth(cluster)
		if w+cw > limit {
			break
		}
		b.WriteString(cluster)
		w += cw
	}
	return b.String() + ellipsis
}

func clusterWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(cluster)
	return runewidth.RuneWidth(r)
}
