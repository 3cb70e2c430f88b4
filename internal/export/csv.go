package export

import (
	"encoding/csv"
	"io"
	"strings"
	"time"
)

// WriteCSV writes every table of the document, separated by blank rows
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{doc.Title},
		{"Generated", doc.GeneratedAt.UTC().Format(time.RFC3339)},
	}
	for _, table := range doc.Tables {
		records = append(records, []string{}, []string{table.Title})

		header := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			header[i] = c.Name
		}
		records = append(records, header)
		for _, row := range table.Rows {
			records = append(records, textCells(row, table.Columns))
		}
		if table.Totals != nil {
			records = append(records, textCells(table.Totals, table.Columns))
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// textCells quotes text cells that a spreadsheet would evaluate as a formula.
// Numeric columns keep their sign.
func textCells(row []string, columns []Column) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		if i < len(columns) && columns[i].Numeric {
			out[i] = cell
			continue
		}
		out[i] = neutralizeFormula(cell)
	}
	return out
}

func neutralizeFormula(cell string) string {
	if cell != "" && strings.ContainsRune("=+-@\t\r", rune(cell[0])) {
		return "'" + cell
	}
	return cell
}
