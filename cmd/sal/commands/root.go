// Package commands implements the sal CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/coregx/sal"
	"github.com/coregx/sal/internal/config"
	"github.com/coregx/sal/internal/logger"
	"github.com/coregx/sal/internal/security"
)

// app carries the resolved configuration shared by all commands.
type app struct {
	configFile string
	driver     string
	dsn        string
	logLevel   string

	cfg *config.Config
}

// NewRootCommand creates the sal root command with all subcommands.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "sal",
		Short:         "Render and run SQL statements",
		Long:          "sal renders insert, update, upsert and delete statements, substitutes named parameters and runs statements in transactions.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default searches "+config.FileName+")")
	cmd.PersistentFlags().StringVar(&a.driver, "driver", "", "database driver: mysql, postgres, sqlite, sqlite3")
	cmd.PersistentFlags().StringVar(&a.dsn, "dsn", "", "data source name")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "statement log level: debug, info, warn, error")

	cmd.AddCommand(newRenderCommand(a))
	cmd.AddCommand(newSubstCommand(a))
	cmd.AddCommand(newExecCommand(a))
	cmd.AddCommand(newFetchCommand(a))
	cmd.AddCommand(newConfigCommand(a))

	return cmd
}

// load reads the configuration; explicitly set flags win.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Driver = a.driver
	}
	if flags.Changed("dsn") {
		cfg.DSN = a.dsn
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) options(cmd *cobra.Command) []sal.Option {
	cfg := a.cfg
	opts := []sal.Option{
		sal.WithLogger(logger.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogJSON)),
		sal.WithLiteralValidator(security.NewValidator(security.WithStrict(cfg.StrictLiterals))),
	}
	if len(cfg.SensitiveFields) > 0 {
		opts = append(opts, sal.WithSensitiveFields(cfg.SensitiveFields...))
	}
	if cfg.MaxOpenConns > 0 {
		opts = append(opts, sal.WithMaxOpenConns(cfg.MaxOpenConns))
	}
	return opts
}

// renderer returns a DB that only renders SQL for the configured driver.
func (a *app) renderer(cmd *cobra.Command) (*sal.DB, error) {
	return sal.Detached(a.cfg.Driver, a.options(cmd)...)
}

// open connects to the configured database.
func (a *app) open(cmd *cobra.Command) (*sal.DB, error) {
	if err := a.cfg.RequireDSN(); err != nil {
		return nil, err
	}
	db, err := sal.Open(a.cfg.Driver, a.cfg.DSN, a.options(cmd)...)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(cmd.Context()); err != nil {
		_ = db.Close()
		return nil, sal.WrapError(err, "connect")
	}
	return db, nil
}
