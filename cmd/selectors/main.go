// Command selectors inspects and checks the selector table used by the page
// objects.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kuitang/pom-e2e/internal/config"
	"github.com/kuitang/pom-e2e/internal/errs"
	"github.com/kuitang/pom-e2e/internal/obs"
	"github.com/kuitang/pom-e2e/internal/selectors"
)

func main() {
	obs.Init()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(errs.ExitCode(errs.CodeOf(err)))
	}
}

// app carries the flags shared by every subcommand.
type app struct {
	file string
	root string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "selectors",
		Short: "Inspect the page object selector table",
		Long: `Inspect the page object selector table.

The table defaults to SELECTORS_PATH from the environment (and env/.env.<E2E_ENV>),
falling back to resources/selectors.csv. Use --file to point at another table.

Examples:
  selectors list
  selectors list --format yaml
  selectors get loginButton
  selectors lint --file fixtures/selectors.csv
  E2E_ENV=staging selectors env`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&a.file, "file", "f", "", "selector table to read (overrides SELECTORS_PATH)")
	cmd.PersistentFlags().StringVar(&a.root, "root", ".", "project root used to resolve env files and default paths")

	cmd.AddCommand(newListCmd(a), newGetCmd(a), newLintCmd(a), newEnvCmd(a))
	return cmd
}

func (a *app) config() (*config.Config, error) {
	cfg, err := config.Load(a.root)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, fmt.Sprintf("loading configuration: %v", err), err)
	}
	return cfg, nil
}

func (a *app) registry() (*selectors.Registry, error) {
	logOpt := selectors.WithLogger(obs.Pkg("selectors-cli"))
	if a.file != "" {
		return selectors.New(a.file, logOpt), nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return selectors.New(cfg.SelectorsPath, logOpt), nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return errs.New(errs.InvalidArgument, err.Error())
		}
		return nil
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the selector for one key",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			sel, err := reg.Lookup(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sel)
			return err
		},
	}
}

func newLintCmd(a *app) *cobra.Command {
	var noRequired bool
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report duplicate keys and keys the page objects need but the table lacks",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			records, err := reg.ListAll()
			if err != nil {
				return err
			}
			var required []string
			if !noRequired {
				required = selectors.Keys()
			}
			problems := selectors.Lint(records, required...)
			return reportProblems(cmd.OutOrStdout(), reg.Path(), len(records), problems)
		},
	}
	cmd.Flags().BoolVar(&noRequired, "no-required", false, "only check for duplicates")
	return cmd
}

func newEnvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the resolved run configuration",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			cfg.Summary(cmd.OutOrStdout())
			return nil
		},
	}
}

func reportProblems(w io.Writer, path string, rows int, problems []selectors.Problem) error {
	for _, p := range problems {
		if p.Line > 0 {
			fmt.Fprintf(w, "%s:%d: %s: %s\n", path, p.Line, p.Kind, p.Message)
		} else {
			fmt.Fprintf(w, "%s: %s: %s\n", path, p.Kind, p.Message)
		}
	}
	if len(problems) > 0 {
		return errs.New(errs.FailedPrecondition, fmt.Sprintf("%d problem(s) in %s", len(problems), path))
	}
	fmt.Fprintf(w, "%s: %d rows, no problems\n", path, rows)
	return nil
}
