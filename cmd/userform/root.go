package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-userform/pkg/renderers/tui"
	"github.com/goliatone/go-userform/pkg/schema"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     Config
	logger  *log.Logger

	// driver replaces the interactive prompts when set.
	driver tui.PromptDriver
}

func newApp() *app {
	return &app{v: newViper()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "userform",
		Short:         "Fill, validate and describe the user registration form",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("mode", "all", "validation mode (all, onChange, onBlur, onSubmit)")
	flags.String("schema", "", "field schema definition file (defaults to the built-in registration form)")
	flags.StringP("output", "o", "json", "output format (json, pretty, form)")
	flags.Bool("sanitize", false, "strip markup from text answers before validation")

	bind(a.v, "log.level", flags.Lookup("log-level"))
	bind(a.v, "form.mode", flags.Lookup("mode"))
	bind(a.v, "schema.file", flags.Lookup("schema"))
	bind(a.v, "output.format", flags.Lookup("output"))
	bind(a.v, "output.sanitize", flags.Lookup("sanitize"))

	root.AddCommand(newFillCmd(a), newValidateCmd(a), newSchemaCmd(a))
	return root
}

func (a *app) registry() (*schema.Registry, error) {
	if a.cfg.SchemaFile == "" {
		return schema.Registration(), nil
	}
	reg, err := schema.LoadFile(a.cfg.SchemaFile)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded schema", "file", a.cfg.SchemaFile, "fields", len(reg.Names()))
	return reg, nil
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "userform"})
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// bind lets an explicitly set flag override the config file and environment.
func bind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}
