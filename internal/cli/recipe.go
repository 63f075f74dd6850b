package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/foodlog/internal/export"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/staging"
	"github.com/spf13/cobra"
)

// stagingSession is the part of *staging.Session the REPL drives. Tests can
// provide a lightweight stub.
type stagingSession interface {
	DefaultName() string
	Closed() bool
	AddIngredient(ctx context.Context, foodID int64, amount float64) (*models.RecipeLine, error)
	UpdateIngredient(ctx context.Context, lineID int64, amount float64) (*models.RecipeLine, error)
	RemoveIngredient(ctx context.Context, lineID int64) error
	Lines(ctx context.Context) ([]models.RecipeLine, error)
	Totals(ctx context.Context) (staging.Totals, error)
	Commit(ctx context.Context, name string) (int64, error)
	Abort(ctx context.Context) error
}

var errAborted = errors.New("recipe abandoned")

func newRecipeCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Compose recipes interactively",
	}
	var showMetrics bool
	cmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print staging counters when the session ends")

	begin := func(use, short string, nargs cobra.PositionalArgs, start func(ctx context.Context, e *staging.Engine, args []string) (*staging.Session, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  nargs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := r.open(cmd.Context())
				if err != nil {
					return err
				}
				s, err := start(cmd.Context(), a.engine, args)
				if err != nil {
					return err
				}
				id, err := runREPL(cmd.Context(), s, bufio.NewScanner(r.in), r.out, interactive(r.in))
				switch {
				case errors.Is(err, errAborted):
					fmt.Fprintln(r.out, "Recipe abandoned")
				case err != nil:
					return err
				default:
					fmt.Fprintf(r.out, "Saved recipe %d\n", id)
				}
				if showMetrics {
					return a.WriteMetrics(r.out)
				}
				return nil
			},
		}
	}

	cmd.AddCommand(
		begin("new", "Start a new recipe", cobra.NoArgs,
			func(ctx context.Context, e *staging.Engine, _ []string) (*staging.Session, error) {
				return e.BeginAdd(ctx)
			}),
		begin("edit <id>", "Edit a recipe's ingredients in place", cobra.ExactArgs(1),
			func(ctx context.Context, e *staging.Engine, args []string) (*staging.Session, error) {
				id, err := parseID(args[0])
				if err != nil {
					return nil, err
				}
				return e.BeginEdit(ctx, id)
			}),
		begin("copy <id>", "Start a new recipe from a copy of another", cobra.ExactArgs(1),
			func(ctx context.Context, e *staging.Engine, args []string) (*staging.Session, error) {
				id, err := parseID(args[0])
				if err != nil {
					return nil, err
				}
				return e.BeginCopy(ctx, id)
			}),
	)
	return cmd
}

const replHelp = `Commands:
  add <foodId> <grams>      add an ingredient
  amount <line> <grams>     change an ingredient amount
  remove <line>             drop an ingredient
  list                      show ingredients and totals
  commit [name]             save the recipe
  abort                     discard changes
  help                      show this text`

// runREPL reads staging commands from scanner until the recipe is committed
// or abandoned. It returns the committed food id, or errAborted.
//
// Command errors are printed and the loop continues, so a failed commit can
// be corrected and retried. The loop ends with an error only when the
// session was closed underneath it. End of input abandons the session.
func runREPL(ctx context.Context, s stagingSession, scanner *bufio.Scanner, out io.Writer, prompt bool) (int64, error) {
	if name := s.DefaultName(); name != "" {
		fmt.Fprintf(out, "Recipe %q (type 'help' for commands)\n", name)
	} else {
		fmt.Fprintln(out, "New recipe (type 'help' for commands)")
	}

	for {
		if prompt {
			fmt.Fprint(out, "recipe> ")
		}
		if !scanner.Scan() {
			if err := s.Abort(ctx); err != nil {
				return 0, err
			}
			return 0, errAborted
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(out, replHelp)

		case "add":
			if len(args) != 2 {
				fmt.Fprintln(out, "Usage: add <foodId> <grams>")
				continue
			}
			report(out, addIngredient(ctx, s, out, args[0], args[1]))

		case "amount":
			if len(args) != 2 {
				fmt.Fprintln(out, "Usage: amount <line> <grams>")
				continue
			}
			report(out, updateIngredient(ctx, s, out, args[0], args[1]))

		case "remove":
			if len(args) != 1 {
				fmt.Fprintln(out, "Usage: remove <line>")
				continue
			}
			id, err := parseID(args[0])
			if err == nil {
				err = s.RemoveIngredient(ctx, id)
			}
			report(out, err)

		case "l", "list":
			report(out, listIngredients(ctx, s, out))

		case "commit":
			name := strings.Join(args, " ")
			if name == "" {
				name = s.DefaultName()
			}
			id, err := s.Commit(ctx, name)
			if err == nil {
				return id, nil
			}
			if s.Closed() {
				return 0, err
			}
			report(out, err)

		case "abort", "exit", "quit":
			if err := s.Abort(ctx); err != nil {
				report(out, err)
				continue
			}
			return 0, errAborted

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}

func report(out io.Writer, err error) {
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
	}
}

func addIngredient(ctx context.Context, s stagingSession, out io.Writer, food, grams string) error {
	foodID, err := parseID(food)
	if err != nil {
		return err
	}
	amount, err := parseAmount(grams)
	if err != nil {
		return err
	}
	l, err := s.AddIngredient(ctx, foodID, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Line %d: %s g %s\n", l.ID, export.FormatNumber(l.Amount), l.Description)
	return nil
}

func updateIngredient(ctx context.Context, s stagingSession, out io.Writer, line, grams string) error {
	lineID, err := parseID(line)
	if err != nil {
		return err
	}
	amount, err := parseAmount(grams)
	if err != nil {
		return err
	}
	l, err := s.UpdateIngredient(ctx, lineID, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Line %d: %s g %s\n", l.ID, export.FormatNumber(l.Amount), l.Description)
	return nil
}

func listIngredients(ctx context.Context, s stagingSession, out io.Writer) error {
	lines, err := s.Lines(ctx)
	if err != nil {
		return err
	}
	t, err := s.Totals(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(out, "No ingredients yet")
		return nil
	}
	printLines(out, lines)
	fmt.Fprintf(out, "Total: %d lines, %s g, %s kJ\n", t.Lines, export.FormatNumber(t.Weight), export.FormatNumber(t.Nutrients.Energy))
	return nil
}
