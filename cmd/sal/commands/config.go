package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coregx/sal/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if cfg.DSN != "" {
				cfg.DSN = "***"
			}
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	})

	var path string
	save := &cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			if err := config.Save(a.cfg, path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	save.Flags().StringVarP(&path, "output", "o", "", "file to write (default ~/.config/sal/"+config.FileName+")")
	cmd.AddCommand(save)

	return cmd
}
