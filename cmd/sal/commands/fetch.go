package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

var errNoRows = errors.New("no rows")

func newFetchCommand(a *app) *cobra.Command {
	var row, one, table bool

	cmd := &cobra.Command{
		Use:   "fetch STATEMENT [ARG...]",
		Short: "Run a query and print its rows as JSON",
		Long: `Run STATEMENT with positional ARGs and print one JSON object per row.

With --row only the first row is printed and with --one only its first
column. Both fail when the query returns no rows. --table prints all rows as
a text table instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			params := parseValues(args[1:])
			out := cmd.OutOrStdout()

			switch {
			case one:
				v, ok, err := db.FetchOne(ctx, args[0], params...)
				if err != nil {
					return err
				}
				if !ok {
					return errNoRows
				}
				return writeJSON(out, v)
			case row:
				r, ok, err := db.FetchRow(ctx, args[0], params...)
				if err != nil {
					return err
				}
				if !ok {
					return errNoRows
				}
				return writeRow(out, r)
			}

			rows, err := db.Fetch(ctx, args[0], params...)
			if err != nil {
				return err
			}
			if table {
				return writeTable(out, rows)
			}
			for _, r := range rows {
				if err := writeRow(out, r); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&row, "row", false, "print only the first row")
	cmd.Flags().BoolVar(&one, "one", false, "print only the first column of the first row")
	cmd.Flags().BoolVar(&table, "table", false, "print rows as a text table")
	cmd.MarkFlagsMutuallyExclusive("row", "one", "table")
	return cmd
}
