// Package config loads the sal command configuration from a YAML file,
// SAL_* environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/coregx/sal/internal/dialects"
)

// AppFs is the filesystem config and .env files are read from.
var AppFs = afero.NewOsFs()

// FileName is the config file name searched for in the working directory,
// the home directory and ~/.config/sal.
const FileName = ".sal.yaml"

// Config holds the command configuration.
type Config struct {
	Driver          string   `mapstructure:"driver" json:"driver"`
	DSN             string   `mapstructure:"dsn" json:"dsn"`
	LogLevel        string   `mapstructure:"log_level" json:"log_level"`
	LogJSON         bool     `mapstructure:"log_json" json:"log_json"`
	MaxOpenConns    int      `mapstructure:"max_open_conns" json:"max_open_conns"`
	SensitiveFields []string `mapstructure:"sensitive_fields" json:"sensitive_fields"`
	StrictLiterals  bool     `mapstructure:"strict_literals" json:"strict_literals"`
}

// ErrNoDSN is returned when a command needs a connection but no DSN is set.
var ErrNoDSN = errors.New("no dsn configured (set --dsn, SAL_DSN or dsn in " + FileName + ")")

func newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("driver", "mysql")
	v.SetDefault("dsn", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_json", false)
	v.SetDefault("max_open_conns", 0)
	v.SetDefault("strict_literals", false)
	v.SetDefault("sensitive_fields", []string{})
	return v
}

// Load reads the configuration. An explicit configFile must exist; otherwise
// .sal.yaml is searched for and its absence is not an error. A .env file in
// the working directory is loaded into the environment first, without
// overriding variables that are already set.
func Load(configFile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "sal"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv exports the variables of path that are not set yet.
func loadDotEnv(path string) error {
	f, err := AppFs.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for k, val := range env {
		if _, set := os.LookupEnv(k); !set {
			if err := os.Setenv(k, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks that the driver has a dialect and, when a DSN is set, that
// it parses for the drivers whose DSN syntax is known.
func (c *Config) Validate() error {
	if _, ok := dialects.Lookup(c.Driver); !ok {
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.DSN == "" {
		return nil
	}

	switch dialects.GetDialect(c.Driver).Name() {
	case "mysql":
		if _, err := mysql.ParseDSN(c.DSN); err != nil {
			return fmt.Errorf("invalid mysql dsn: %w", err)
		}
	case "postgres":
		if strings.HasPrefix(c.DSN, "postgres://") || strings.HasPrefix(c.DSN, "postgresql://") {
			if _, err := pq.ParseURL(c.DSN); err != nil {
				return fmt.Errorf("invalid postgres dsn: %w", err)
			}
		}
	}
	return nil
}

// RequireDSN returns ErrNoDSN when no DSN is configured.
func (c *Config) RequireDSN() error {
	if c.DSN == "" {
		return ErrNoDSN
	}
	return nil
}

// Save writes cfg as YAML to path. The DSN is written as well, so the file
// should not be shared.
func Save(cfg *Config, path string) error {
	v := newViper()
	v.Set("driver", cfg.Driver)
	v.Set("dsn", cfg.DSN)
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_json", cfg.LogJSON)
	v.Set("max_open_conns", cfg.MaxOpenConns)
	v.Set("sensitive_fields", cfg.SensitiveFields)
	v.Set("strict_literals", cfg.StrictLiterals)

	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return v.WriteConfigAs(path)
}

// DefaultPath returns ~/.config/sal/.sal.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sal", FileName), nil
}
