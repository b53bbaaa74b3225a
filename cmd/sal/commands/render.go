package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coregx/sal"
)

type renderOptions struct {
	set      []string
	where    []string
	conflict []string
	bind     bool
}

func newRenderCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print a statement without running it",
		Long: `Print an insert, update, upsert or delete statement for the configured driver.

Values given with --set are typed: null, true, false and numbers are kept as
such, anything else is a string. A value starting with ` + "``" + ` is spliced
into the statement verbatim.`,
	}

	cmd.AddCommand(newRenderInsertCommand(a))
	cmd.AddCommand(newRenderUpdateCommand(a))
	cmd.AddCommand(newRenderUpsertCommand(a))
	cmd.AddCommand(newRenderDeleteCommand(a))
	return cmd
}

func newRenderInsertCommand(a *app) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "insert TABLE --set col=value...",
		Short: "Render an insert statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, fields, err := a.renderInput(cmd, opts)
			if err != nil {
				return err
			}
			if opts.bind {
				q, err := db.Builder().InsertExpr(args[0], fields)
				return printQuery(cmd, q, err)
			}
			sql, err := db.InsertDML(args[0], fields)
			return printSQL(cmd, sql, err)
		},
	}

	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "column assignment col=value (repeatable)")
	cmd.Flags().BoolVar(&opts.bind, "bind", false, "print placeholders and bound params instead of inlined values")
	return cmd
}

func newRenderUpdateCommand(a *app) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "update TABLE --set col=value... --where expr...",
		Short: "Render an update statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, fields, err := a.renderInput(cmd, opts)
			if err != nil {
				return err
			}
			if opts.bind {
				q, err := db.Builder().UpdateExpr(args[0], fields, opts.where)
				return printQuery(cmd, q, err)
			}
			sql, err := db.UpdateDML(args[0], fields, opts.where)
			return printSQL(cmd, sql, err)
		},
	}

	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "column assignment col=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.where, "where", nil, "filter expression, joined with and (repeatable)")
	cmd.Flags().BoolVar(&opts.bind, "bind", false, "print placeholders and bound params instead of inlined values")
	return cmd
}

func newRenderUpsertCommand(a *app) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "upsert TABLE --set col=value... [--conflict col...]",
		Short: "Render an insert that updates on key conflict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, fields, err := a.renderInput(cmd, opts)
			if err != nil {
				return err
			}
			q, err := db.Builder().InsertOrUpdate(args[0], fields, opts.conflict...)
			return printQuery(cmd, q, err)
		},
	}

	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "column assignment col=value (repeatable)")
	cmd.Flags().StringSliceVar(&opts.conflict, "conflict", nil, "unique columns of the conflict target")
	return cmd
}

func newRenderDeleteCommand(a *app) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "delete TABLE --where expr...",
		Short: "Render a delete statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			q, err := db.Builder().Delete(args[0], opts.where)
			if err != nil {
				return err
			}
			return printSQL(cmd, q.SQL(), nil)
		},
	}

	cmd.Flags().StringArrayVar(&opts.where, "where", nil, "filter expression, joined with and (repeatable)")
	return cmd
}

func (a *app) renderInput(cmd *cobra.Command, opts *renderOptions) (*sal.DB, sal.Fields, error) {
	fields, err := parseAssignments(opts.set)
	if err != nil {
		return nil, nil, err
	}
	db, err := a.renderer(cmd)
	if err != nil {
		return nil, nil, err
	}
	return db, fields, nil
}

func printSQL(cmd *cobra.Command, sql string, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), sql)
	return err
}

// printQuery prints the statement followed by its params as a JSON array.
func printQuery(cmd *cobra.Command, q *sal.Query, err error) error {
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, q.SQL()); err != nil {
		return err
	}
	return writeJSON(out, q.Params())
}
