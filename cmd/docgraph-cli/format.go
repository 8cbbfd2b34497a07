package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/docgraph/docgraph/client"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.Join(parts, "  "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func formatQuiet(id string) {
	fmt.Println(id)
}

func output(v any, quietVal string) {
	switch flagFmt {
	case "quiet":
		formatQuiet(quietVal)
	default:
		// Table needs typed rows; callers with lists use the print helpers.
		formatJSON(v)
	}
}

// propsCell renders properties as "k=v" pairs for a table cell.
func propsCell(props []client.Property) string {
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p.Key + "=" + p.Value
	}
	return strings.Join(parts, ", ")
}

func printVertices(vs []client.Vertex) {
	switch flagFmt {
	case "table":
		rows := make([][]string, 0, len(vs))
		for _, v := range vs {
			rows = append(rows, []string{v.ID, v.Label, propsCell(v.Properties)})
		}
		formatTable([]string{"ID", "LABEL", "PROPERTIES"}, rows)
	case "quiet":
		for _, v := range vs {
			formatQuiet(v.ID)
		}
	default:
		formatJSON(vs)
	}
}

func printEdges(es []client.Edge) {
	switch flagFmt {
	case "table":
		rows := make([][]string, 0, len(es))
		for _, e := range es {
			rows = append(rows, []string{e.ID, e.Label, e.SourceID, e.TargetID, propsCell(e.Properties)})
		}
		formatTable([]string{"ID", "LABEL", "SOURCE", "TARGET", "PROPERTIES"}, rows)
	case "quiet":
		for _, e := range es {
			formatQuiet(e.ID)
		}
	default:
		formatJSON(es)
	}
}

// printCounts renders a term frequency map, most frequent first.
func printCounts(header string, m map[string]int64) {
	if flagFmt != "table" {
		formatJSON(m)
		return
	}
	terms := make([]string, 0, len(m))
	for t := range m {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if m[terms[i]] != m[terms[j]] {
			return m[terms[i]] > m[terms[j]]
		}
		return terms[i] < terms[j]
	})
	rows := make([][]string, len(terms))
	for i, t := range terms {
		rows[i] = []string{t, fmt.Sprintf("%d", m[t])}
	}
	formatTable([]string{header, "COUNT"}, rows)
}
