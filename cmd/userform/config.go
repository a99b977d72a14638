package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/renderers/tui"
)

const envPrefix = "USERFORM"

// Config is the resolved runtime configuration.
type Config struct {
	LogLevel     string
	Mode         form.Mode
	Thumbnail    uint
	Placeholder  string
	SchemaFile   string
	OutputFormat tui.OutputFormat
	Sanitize     bool
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("form.mode", string(form.ModeAll))
	v.SetDefault("preview.thumbnail", 0)
	v.SetDefault("preview.placeholder", "")
	v.SetDefault("schema.file", "")
	v.SetDefault("output.format", string(tui.OutputFormatJSON))
	v.SetDefault("output.sanitize", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func loadConfig(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	mode, err := form.ParseMode(v.GetString("form.mode"))
	if err != nil {
		return Config{}, err
	}
	format := tui.OutputFormat(strings.ToLower(v.GetString("output.format")))
	switch format {
	case tui.OutputFormatJSON, tui.OutputFormatPrettyText, tui.OutputFormatFormURLEncoded:
	default:
		return Config{}, fmt.Errorf("unknown output format %q", format)
	}

	return Config{
		LogLevel:     v.GetString("log.level"),
		Mode:         mode,
		Thumbnail:    v.GetUint("preview.thumbnail"),
		Placeholder:  v.GetString("preview.placeholder"),
		SchemaFile:   v.GetString("schema.file"),
		OutputFormat: format,
		Sanitize:     v.GetBool("output.sanitize"),
	}, nil
}
