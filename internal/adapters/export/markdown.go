package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/criatividade/internal/app"
)

// Markdown writes the dashboard as a plain Markdown report.
func Markdown(w io.Writer, d *app.Dashboard) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Análise de Criatividade: %s\n\n", d.FileName)
	writeMarkdownTable(&b, summary(d), false)
	for _, tb := range tables(d) {
		fmt.Fprintf(&b, "## %s\n\n", tb.title)
		writeMarkdownTable(&b, tb, true)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdownTable(b *strings.Builder, tb table, emptyNote bool) {
	if len(tb.rows) == 0 && emptyNote {
		b.WriteString("_Sem dados._\n\n")
		return
	}
	b.WriteString("| " + strings.Join(tb.header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(tb.header)) + "\n")
	for _, row := range tb.rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func cell(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case string:
		return strings.ReplaceAll(x, "|", `\|`)
	default:
		return fmt.Sprint(x)
	}
}
