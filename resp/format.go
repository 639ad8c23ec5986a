package resp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Format renders n the way redis-cli prints replies on a terminal. Aggregates
// of more than a handful of strings are laid out in columns when width is
// positive.
func Format(n Node, width int) string {
	var b strings.Builder
	format(&b, n, "", width)
	return b.String()
}

func format(b *strings.Builder, n Node, indent string, width int) {
	switch n := n.(type) {
	case SimpleString:
		b.WriteString(n.Value)
	case Error:
		fmt.Fprintf(b, "(error) %s", n.Message)
	case Integer:
		fmt.Fprintf(b, "(integer) %d", n.Value)
	case BlobString:
		b.WriteString(strconv.Quote(n.Value))
	case Boolean:
		if n.Value {
			b.WriteString("(true)")
		} else {
			b.WriteString("(false)")
		}
	case Null:
		b.WriteString("(nil)")
	case Array:
		list(b, n.Elements, indent, width)
	case Set:
		list(b, n.Elements, indent, width)
	}
}

func list(b *strings.Builder, elements []Node, indent string, width int) {
	if len(elements) == 0 {
		b.WriteString("(empty array)")
		return
	}
	if cells, ok := flat(elements); ok && width > 0 && len(cells) > 4 {
		columns(b, cells, width)
		return
	}
	digits := len(strconv.Itoa(len(elements)))
	for i, e := range elements {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(indent)
		}
		label := fmt.Sprintf("%*d) ", digits, i+1)
		b.WriteString(label)
		format(b, e, indent+strings.Repeat(" ", len(label)), width)
	}
}

// flat renders elements that are all scalars.
func flat(elements []Node) ([]string, bool) {
	cells := make([]string, len(elements))
	for i, e := range elements {
		switch e.(type) {
		case Array, Set:
			return nil, false
		}
		cells[i] = Format(e, 0)
	}
	return cells, true
}

func columns(b *strings.Builder, cells []string, width int) {
	digits := len(strconv.Itoa(len(cells)))
	cellWidth := 0
	for _, c := range cells {
		if w := runewidth.StringWidth(c); w > cellWidth {
			cellWidth = w
		}
	}
	cellWidth += digits + 4 // "n) " plus a gap
	perRow := width / cellWidth
	if perRow < 1 {
		perRow = 1
	}
	for i, c := range cells {
		if i > 0 && i%perRow == 0 {
			b.WriteString("\n")
		}
		cell := fmt.Sprintf("%*d) %s", digits, i+1, c)
		if (i+1)%perRow != 0 && i != len(cells)-1 {
			cell += strings.Repeat(" ", cellWidth-runewidth.StringWidth(cell))
		}
		b.WriteString(cell)
	}
}
