package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV serializes a summary as CSV: one row per type breakdown plus a
// trailing totals row.
func WriteCSV(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"type", "lines", "quantity", "revenue", "currency"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range s.ByType {
		row := []string{
			b.Type,
			strconv.Itoa(b.Lines),
			strconv.Itoa(b.Quantity),
			money(b.Revenue),
			s.Currency,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	total := []string{
		"TOTAL",
		strconv.Itoa(s.Lines),
		strconv.Itoa(s.TotalQuantity),
		money(s.Totals.Total),
		s.Currency,
	}
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("write totals row: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
