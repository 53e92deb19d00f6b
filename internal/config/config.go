// Package config loads dataoverview settings from flags, environment and
// an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
)

const (
	// Name is the config file base name and the environment prefix.
	Name = "dataoverview"

	KeyDelimiter   = "csv.delimiter"
	KeyTop         = "profile.top"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
	KeyFailOnError = "fail_on_error"
)

type Settings struct {
	CSV struct {
		Delimiter string `mapstructure:"delimiter"`
	} `mapstructure:"csv"`

	Profile struct {
		Top int `mapstructure:"top"`
	} `mapstructure:"profile"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	FailOnError bool `mapstructure:"fail_on_error"`
}

// Delimiter returns the CSV delimiter as a rune.
func (s *Settings) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(s.CSV.Delimiter)
	return r
}

func (s *Settings) validate() error {
	if utf8.RuneCountInString(s.CSV.Delimiter) != 1 {
		return fmt.Errorf("%s must be a single character, got %q", KeyDelimiter, s.CSV.Delimiter)
	}
	switch d := s.Delimiter(); d {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("%s cannot be %q", KeyDelimiter, d)
	}
	if s.Profile.Top <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyTop, s.Profile.Top)
	}
	return nil
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyDelimiter, ";")
	v.SetDefault(KeyTop, 3)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyFailOnError, false)

	v.SetEnvPrefix(Name)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// ReadFile reads cfgFile, or looks for dataoverview.yaml next to the
// executable and in the working directory. A missing default file is not
// an error. It returns the file used, if any.
func ReadFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
		v.AddConfigPath(".")
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config: %w", err)
	}

	return v.ConfigFileUsed(), nil
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
