package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dmitrijs2005/foodlog/internal/buildinfo"
	"github.com/dmitrijs2005/foodlog/internal/config"
	"github.com/spf13/cobra"
)

// runner carries the per-invocation state shared by the command handlers.
type runner struct {
	cfg    *config.Config
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	app *App
}

// open builds the App on first use so that help output never touches the
// database.
func (r *runner) open(ctx context.Context) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	a, err := NewApp(ctx, r.cfg, r.errOut)
	if err != nil {
		return nil, err
	}
	r.app = a
	return a, nil
}

// Execute loads configuration from args and runs the matching command.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) (err error) {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	r := &runner{cfg: cfg, in: in, out: out, errOut: errOut, now: time.Now}
	defer func() {
		if r.app != nil {
			err = errors.Join(err, r.app.Close(ctx))
		}
	}()

	root := newRootCmd(r)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func newRootCmd(r *runner) *cobra.Command {
	root := &cobra.Command{
		Use:           "foodlog",
		Short:         "Track foods, meals, recipes and body weight",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Parsed by package config; declared here so cobra accepts them.
	var ignored string
	root.PersistentFlags().StringVarP(&ignored, "config", "c", "", "path to a JSON config file")
	root.PersistentFlags().StringVarP(&ignored, "dsn", "d", "", "database path or DSN")
	root.PersistentFlags().StringVarP(&ignored, "log-level", "l", "", "log level: debug, info, warn or error")

	// Registered before subcommands so command lookup treats --help as a
	// boolean and does not consume the flag after it.
	root.InitDefaultHelpFlag()

	root.AddCommand(
		newFoodCmd(r),
		newEatCmd(r),
		newEatenCmd(r),
		newWeightCmd(r),
		newDayCmd(r),
		newExportCmd(r),
		newRecipeCmd(r),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				buildinfo.PrintBuildData(r.out)
			},
		},
	)
	return root
}
