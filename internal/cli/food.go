package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/foodlog/internal/export"
	"github.com/dmitrijs2005/foodlog/internal/filex"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"github.com/spf13/cobra"
)

func newFoodCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "food",
		Short: "Manage the food catalogue",
	}
	cmd.AddCommand(
		newFoodAddCmd(r),
		newFoodListCmd(r),
		newFoodShowCmd(r),
		newFoodRenameCmd(r),
		newFoodDeleteCmd(r),
		newFoodConvertCmd(r),
		newFoodImportCmd(r),
		newFoodExportCmd(r),
	)
	return cmd
}

func newFoodAddCmd(r *runner) *cobra.Command {
	var (
		notes string
		sets  []string
	)
	cmd := &cobra.Command{
		Use:   "add <description> [values...]",
		Short: "Add a food; values are per 100 g (or 100 mL) in storage order",
		Long: "Add a food. Nutrients are given either as the full list of " +
			fmt.Sprint(nutrients.Count) + " values in storage order, with --set name=value, or both.\n" +
			"End the description with \"mL#\" for a liquid.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := buildVector(args[1:], sets)
			if err != nil {
				return err
			}
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.foods.Create(cmd.Context(), args[0], v, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Added food %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "nutrient override, e.g. --set Energy=270")
	return cmd
}

func newFoodListCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list [filter]",
		Short: "List foods whose description contains filter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			var filter string
			if len(args) == 1 {
				filter = args[0]
			}
			foods, err := a.foods.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printFoods(r.out, foods)
			return nil
		},
	}
}

func printFoods(w io.Writer, foods []models.Food) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESCRIPTION\tKIND\tENERGY (kJ)")
	for _, f := range foods {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", f.ID, f.Description, f.Kind, export.FormatNumber(f.Nutrients.Energy))
	}
	_ = tw.Flush()
}

func newFoodShowCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a food's nutrients, and its ingredients when it is a recipe",
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
			f, err := a.foods.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			lines, err := a.foods.Ingredients(cmd.Context(), id)
			if err != nil {
				return err
			}
			printFood(r.out, f, lines)
			return nil
		},
	}
}

func printFood(w io.Writer, f *models.Food, lines []models.RecipeLine) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Food %d:\t%s\n", f.ID, f.Description)
	fmt.Fprintf(tw, "Kind:\t%s (per 100 %s)\n", f.Kind, f.Unit())
	for i, v := range f.Nutrients.Values() {
		fmt.Fprintf(tw, "%s\t%s\n", nutrients.Fields[i].Label, export.FormatNumber(v))
	}
	if f.Notes != "" {
		fmt.Fprintf(tw, "Notes:\t%s\n", f.Notes)
	}
	_ = tw.Flush()

	if len(lines) > 0 {
		fmt.Fprintln(w, "Ingredients:")
		printLines(w, lines)
	}
}

func printLines(w io.Writer, lines []models.RecipeLine) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tAMOUNT (g)\tDESCRIPTION\tENERGY (kJ)")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", l.ID, export.FormatNumber(l.Amount), l.Description, export.FormatNumber(l.Nutrients.Energy))
	}
	_ = tw.Flush()
}

func newFoodRenameCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <new name>",
		Short: "Rename a food, keeping its liquid/density/recipe markers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.foods.Rename(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			f, err := a.foods.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Renamed food %d to %q\n", id, f.Description)
			return nil
		},
	}
}

func newFoodDeleteCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a food and, for a recipe, its ingredient lines",
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
			if err := a.foods.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Deleted food %d\n", id)
			return nil
		},
	}
}

func newFoodConvertCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <id> <density g/mL>",
		Short: "Add a per-100 g copy of a liquid food",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			density, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			newID, err := a.foods.ConvertToSolid(cmd.Context(), id, density)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Added food %d\n", newID)
			return nil
		},
	}
}

func newFoodImportCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json|->",
		Short: "Import foods from a JSON object or array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = r.in
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				src = f
			}
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			ids, err := a.importer.Import(cmd.Context(), src)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Imported %d foods\n", len(ids))
			return nil
		},
	}
}

func newFoodExportCmd(r *runner) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export [id...]",
		Short: "Export foods as JSON; all foods when no id is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return a.importer.Export(cmd.Context(), r.out, ids)
			}
			f, err := filex.Create(output)
			if err != nil {
				return err
			}
			if err := a.importer.Export(cmd.Context(), f, ids); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
