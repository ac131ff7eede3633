package symtab

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

var tableColumns = []struct {
	title string
	width int
}{
	{"Name", 8},
	{"Type", 11},
	{"Initial Value", 13},
	{"Size", 4},
	{"Offset", 6},
	{"Nested Table", 14},
}

// WriteTable renders s as a markdown table, newest entry first
func WriteTable(w io.Writer, s *Scope) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n### Symbol Table: %s\n", s.Name)

	titles := make([]string, len(tableColumns))
	rules := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		titles[i] = col.title
		rules[i] = strings.Repeat("-", col.width)
	}
	writeRow(&b, titles)
	writeRule(&b, rules)

	for _, e := range s.Entries() {
		initial := "-"
		if e.Init != nil {
			initial = e.Init.String()
		}
		nested := "null"
		if e.Nested != nil {
			nested = "ST(" + e.Nested.Name + ")"
		}
		writeRow(&b, []string{
			e.Name,
			e.Type.String(),
			initial,
			strconv.Itoa(e.Size),
			strconv.Itoa(e.Offset),
			nested,
		})
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTables renders s followed by every scope nested under its entries
func WriteTables(w io.Writer, s *Scope) error {
	if err := WriteTable(w, s); err != nil {
		return err
	}
	// declaration order keeps function tables in source order
	for _, e := range s.entries {
		if e.Nested == nil {
			continue
		}
		if err := WriteTables(w, e.Nested); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for i, cell := range cells {
		b.WriteString(" ")
		b.WriteString(pad(cell, tableColumns[i].width))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeRule(b *strings.Builder, rules []string) {
	b.WriteString("|")
	for _, r := range rules {
		b.WriteString("-" + r + "-|")
	}
	b.WriteString("\n")
}

// pad left-aligns s in a column of n terminal cells
func pad(s string, n int) string {
	w := displayWidth(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
