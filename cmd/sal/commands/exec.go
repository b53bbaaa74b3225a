package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExecCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec STATEMENT [ARG...]",
		Short: "Run a statement in its own transaction",
		Long: `Run STATEMENT with positional ARGs bound to its placeholders.

The statement runs in a transaction that is committed on success and rolled
back on failure.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := db.ExecTrans(cmd.Context(), args[0], parseValues(args[1:])...)
			if err != nil {
				return err
			}

			n, err := result.RowsAffected()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", n)
			return err
		},
	}
}
