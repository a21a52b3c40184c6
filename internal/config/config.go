package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sheetdash/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Remote fetches
	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Presentation
	DisplayRows   int    `mapstructure:"display_rows" yaml:"display_rows"`
	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`

	// Column classification
	StrictTypeInference bool `mapstructure:"strict_type_inference" yaml:"strict_type_inference"`

	// Bundled sample; empty uses the embedded file
	SamplePath string `mapstructure:"sample_path" yaml:"sample_path"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// HTTP server
	ServeAddr   string `mapstructure:"serve_addr" yaml:"serve_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		HTTPTimeoutSec: 30,
		DisplayRows:    10,
		DefaultFormat:  "md",
		LogLevel:       "info",
		LogFormat:      "text",
		ServeAddr:      ":8080",
		MaxUploadMB:    10,
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sheetdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.WriteFileAtomic(afero.NewOsFs(), path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SHEETDASH")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("http_timeout_sec", d.HTTPTimeoutSec)
	v.SetDefault("display_rows", d.DisplayRows)
	v.SetDefault("default_format", d.DefaultFormat)
	v.SetDefault("strict_type_inference", d.StrictTypeInference)
	v.SetDefault("sample_path", d.SamplePath)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("serve_addr", d.ServeAddr)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		// A missing file starts from defaults so "config set" can create it.
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sheetdash"), nil
}
