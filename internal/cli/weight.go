package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/foodlog/internal/export"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/timex"
	"github.com/spf13/cobra"
)

func newWeightCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Track body weight",
	}
	cmd.AddCommand(newWeightAddCmd(r), newWeightListCmd(r), newWeightEditCmd(r), newWeightDeleteCmd(r))
	return cmd
}

func newWeightAddCmd(r *runner) *cobra.Command {
	var date, comments string
	cmd := &cobra.Command{
		Use:   "add <kg>",
		Short: "Record a weight; date defaults to today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kg, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			if date == "" {
				date = timex.FormatDate(r.now())
			}
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.weights.Add(cmd.Context(), &models.WeightEntry{Date: date, WeightKg: kg, Comments: comments})
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Added weight %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date, d-MMM-yy")
	cmd.Flags().StringVar(&comments, "comments", "", "free-text comments")
	return cmd
}

func newWeightListCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List weights, newest date first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			list, err := a.weights.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tWEIGHT (kg)\tCOMMENTS")
			for _, w := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", w.ID, w.Date, export.FormatNumber(w.WeightKg), w.Comments)
			}
			return tw.Flush()
		},
	}
}

func newWeightEditCmd(r *runner) *cobra.Command {
	var (
		date, comments, kg string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the fields given as flags",
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
			w, err := a.weights.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("kg") {
				if w.WeightKg, err = parseAmount(kg); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("date") {
				w.Date = date
			}
			if cmd.Flags().Changed("comments") {
				w.Comments = comments
			}
			if err := a.weights.Update(cmd.Context(), w); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Updated weight %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&kg, "kg", "", "weight in kg")
	cmd.Flags().StringVar(&date, "date", "", "date, d-MMM-yy")
	cmd.Flags().StringVar(&comments, "comments", "", "free-text comments")
	return cmd
}

func newWeightDeleteCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a weight entry",
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
			if err := a.weights.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Deleted weight %d\n", id)
			return nil
		},
	}
}
