package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/foodlog/internal/daily"
	"github.com/dmitrijs2005/foodlog/internal/export"
	"github.com/dmitrijs2005/foodlog/internal/filex"
	"github.com/spf13/cobra"
)

func newDayCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "day [date]",
		Short: "Show daily totals for one date (d-MMM-yy) or every date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date string
			if len(args) == 1 {
				date = args[0]
			}
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			totals, err := a.reports.DailyTotals(cmd.Context(), date)
			if err != nil {
				return err
			}
			printTotals(r.out, totals)
			return nil
		},
	}
}

func printTotals(w io.Writer, totals []daily.Total) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tRECORDS\tAMOUNT\tENERGY (kJ)\tPROTEIN (g)\tFAT (g)\tCARBOHYDRATE (g)\tSUGARS (g)\tSODIUM (mg)")
	for _, t := range totals {
		amount := export.FormatNumber(t.Amount) + " " + t.UnitLabel
		if t.UnitLabel == daily.MixedUnits {
			amount = t.UnitLabel
		}
		n := t.Nutrients
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", t.Date, t.Count, amount,
			export.FormatNumber(n.Energy), export.FormatNumber(n.Protein), export.FormatNumber(n.FatTotal),
			export.FormatNumber(n.Carbohydrate), export.FormatNumber(n.Sugars), export.FormatNumber(n.Sodium))
	}
	_ = tw.Flush()
}

func newExportCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Write daily totals joined with weights as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			f, err := filex.Create(args[0])
			if err != nil {
				return err
			}
			n, err := a.reports.ExportCSV(cmd.Context(), f)
			if err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Wrote %d rows to %s\n", n, args[0])
			return nil
		},
	}
}
