package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kuitang/pom-e2e/internal/errs"
	"github.com/kuitang/pom-e2e/internal/selectors"
)

func newListCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every row of the selector table in file order",
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
			return writeRecords(cmd.OutOrStdout(), format, records)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table, json or yaml")
	return cmd
}

func writeRecords(w io.Writer, format string, records []selectors.Record) error {
	if records == nil {
		records = []selectors.Record{}
	}
	switch format {
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LINE\tKEY\tSELECTOR\tTYPE\tCOMMENT")
		for _, r := range records {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Line, r.Key, r.Selector, r.Type, r.Comment)
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errs.New(errs.InvalidArgument, fmt.Sprintf("unknown format %q (want table, json or yaml)", format))
	}
}
