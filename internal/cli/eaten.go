package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/foodlog/internal/export"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/timex"
	"github.com/spf13/cobra"
)

func newEatCmd(r *runner) *cobra.Command {
	var date, clock string
	cmd := &cobra.Command{
		Use:   "eat <foodId> <amount>",
		Short: "Log an amount (g or mL) of a food; date and time default to now",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			foodID, err := parseID(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			now := r.now()
			if date == "" {
				date = timex.FormatDate(now)
			}
			if clock == "" {
				clock = timex.FormatTime(now)
			}
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			e, err := a.eaten.Log(cmd.Context(), foodID, amount, date, clock)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Logged %d: %s %s, %s kJ\n", e.ID, export.FormatNumber(e.Amount), e.Description, export.FormatNumber(e.Nutrients.Energy))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date eaten, d-MMM-yy")
	cmd.Flags().StringVar(&clock, "time", "", "time eaten, HH:mm")
	return cmd
}

func newEatenCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eaten",
		Short: "List and correct logged consumption",
	}
	cmd.AddCommand(newEatenListCmd(r), newEatenEditCmd(r), newEatenDeleteCmd(r))
	return cmd
}

func newEatenListCmd(r *runner) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			var records []models.Eaten
			if date == "" {
				records, err = a.eaten.List(cmd.Context())
			} else {
				records, err = a.eaten.ListByDate(cmd.Context(), date)
			}
			if err != nil {
				return err
			}
			printEaten(r.out, records)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "only this date, d-MMM-yy")
	return cmd
}

func printEaten(w io.Writer, records []models.Eaten) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tAMOUNT\tDESCRIPTION\tENERGY (kJ)")
	for _, e := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.DateEaten, e.TimeEaten,
			export.FormatNumber(e.Amount), e.Description, export.FormatNumber(e.Nutrients.Energy))
	}
	_ = tw.Flush()
}

func newEatenEditCmd(r *runner) *cobra.Command {
	var date, clock string
	cmd := &cobra.Command{
		Use:   "edit <id> <amount>",
		Short: "Change the amount, rescaling nutrients; date and time are kept unless given",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			cur, err := a.eaten.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if date == "" {
				date = cur.DateEaten
			}
			if clock == "" {
				clock = cur.TimeEaten
			}
			e, err := a.eaten.Update(cmd.Context(), id, amount, date, clock)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Updated %d: %s %s, %s kJ\n", e.ID, export.FormatNumber(e.Amount), e.Description, export.FormatNumber(e.Nutrients.Energy))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "new date, d-MMM-yy")
	cmd.Flags().StringVar(&clock, "time", "", "new time, HH:mm")
	return cmd
}

func newEatenDeleteCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a logged record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.eaten.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Deleted record %d\n", id)
			return nil
		},
	}
}
