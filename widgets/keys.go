package widgets

import (
	"fmt"
	"strings"
)

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderKeyColumns lays the keys of one section out in columns, for
// contexts with more bindings than fit one per line.
func RenderKeyColumns(sec KeySection, columns int) string {
	if columns < 1 {
		columns = 1
	}
	rows := (len(sec.Keys) + columns - 1) / columns
	var lines []string
	if sec.Title != "" {
		lines = append(lines, sec.Title)
	}
	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c := 0; c < columns; c++ {
			i := c*rows + r
			if i >= len(sec.Keys) {
				break
			}
			k := sec.Keys[i]
			cell := fmt.Sprintf("%-6s %-14s", k.Key, k.Desc)
			line.WriteString("  ")
			line.WriteString(cell)
		}
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
