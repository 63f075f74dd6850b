// Package export renders daily totals joined with body weight as CSV.
package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/foodlog/internal/daily"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
)

// Row is one exported date. Either side of the join may be missing.
type Row struct {
	Date   string
	Weight *models.WeightEntry
	Total  *daily.Total
}

// Header returns the column titles.
func Header() []string {
	h := []string{"Date", "My weight (kg)", "Comments", "Amount (g or mL)"}
	for _, f := range nutrients.Fields {
		h = append(h, f.Label)
	}
	return h
}

// Join matches totals and weights on the date string. Dates with only a
// weight entry are kept. When a date has several weight entries the first
// one in weights wins. Rows come back newest date first.
func Join(totals []daily.Total, weights []models.WeightEntry) []Row {
	byDate := make(map[string]*Row)
	var order []string

	row := func(date string) *Row {
		r, ok := byDate[date]
		if !ok {
			r = &Row{Date: date}
			byDate[date] = r
			order = append(order, date)
		}
		return r
	}

	for i := range totals {
		row(totals[i].Date).Total = &totals[i]
	}
	for i := range weights {
		r := row(weights[i].Date)
		if r.Weight == nil {
			r.Weight = &weights[i]
		}
	}

	out := make([]Row, 0, len(order))
	for _, d := range order {
		out = append(out, *byDate[d])
	}
	daily.SortNewestFirst(out, func(r Row) string { return r.Date })
	return out
}

// FormatNumber rounds to two decimals and drops trailing zeros.
func FormatNumber(x float64) string {
	return strconv.FormatFloat(nutrients.Round2(x), 'f', -1, 64)
}

// Cells renders a row in Header order.
func (r Row) Cells() []string {
	cells := []string{r.Date, "", ""}
	if r.Weight != nil {
		cells[1] = FormatNumber(r.Weight.WeightKg)
		cells[2] = r.Weight.Comments
	}
	if r.Total == nil {
		return append(cells, make([]string, 1+nutrients.Count)...)
	}
	cells = append(cells, FormatNumber(r.Total.Amount))
	for _, v := range r.Total.Nutrients.Values() {
		cells = append(cells, FormatNumber(v))
	}
	return cells
}

// quote always wraps the cell in double quotes and doubles embedded ones.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeLine(w *bufio.Writer, cells []string) error {
	for i, c := range cells {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(c)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// WriteCSV writes the header followed by one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	if err := writeLine(bw, Header()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writeLine(bw, r.Cells()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
