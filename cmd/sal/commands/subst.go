package commands

import (
	"github.com/spf13/cobra"
)

func newSubstCommand(a *app) *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "subst QUERY --param name=value...",
		Short: "Substitute :name and ::name placeholders",
		Long: `Substitute named placeholders in QUERY.

::name is replaced by the value quoted as an identifier and :name by the value
quoted as a literal. Placeholders without a --param are left as they are.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseParams(params)
			if err != nil {
				return err
			}
			db, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return printSQL(cmd, db.EscapeNamedParams(args[0], values), nil)
		},
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "named value name=value (repeatable)")
	return cmd
}
