package table

import "strings"

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Format returns the rows padded according to the widest entry in each column.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	widths := make([]int, colCount)
	for _, row := range rows {
		for c, cell := range row {
			width := cellWidth(cell)
			if width > widths[c] {
				widths[c] = width
			}
		}
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			width := widths[c] - cellWidth(cell)
			if width < 0 {
				width = 0
			}
			if c < len(alignments) && alignments[c] == AlignRight {
				writeSpaces(&b, width)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				writeSpaces(&b, width)
			}
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return out
}

// Fixed lays each row out in columns of exactly the given widths. Cells
// longer than their column are cut, shorter ones are padded on the right,
// and columns are joined by a single space. Cells beyond len(widths) are
// ignored.
func Fixed(rows [][]string, widths []int) []string {
	if len(rows) == 0 {
		return nil
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = FixedRow(row, widths)
	}
	return out
}

// FixedRow formats a single row the way Fixed does.
func FixedRow(row []string, widths []int) string {
	var b strings.Builder
	for c, width := range widths {
		if c > 0 {
			b.WriteByte(' ')
		}
		cell := ""
		if c < len(row) {
			cell = Clip(row[c], width)
		}
		b.WriteString(cell)
		writeSpaces(&b, width-cellWidth(cell))
	}
	return b.String()
}

// Separator returns a rule of dashes as wide as the given line.
func Separator(line string) string {
	return strings.Repeat("-", cellWidth(line))
}

// Clip returns at most width runes of text.
func Clip(text string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width])
}

func cellWidth(text string) int {
	return len([]rune(text))
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	for i := 0; i < count; i++ {
		b.WriteByte(' ')
	}
}
