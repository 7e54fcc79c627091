package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings are the CLI's own knobs, as opposed to a system file.
type Settings struct {
	DataDir       string  `mapstructure:"data_dir"`
	LogLevel      string  `mapstructure:"log_level"`
	FPS           int     `mapstructure:"fps"`
	ScreenSize    int     `mapstructure:"screen_size"`
	ScreenSizeAU  float64 `mapstructure:"screen_size_au"`
	StepsPerFrame int     `mapstructure:"steps_per_frame"`
}

func DefaultSettings() Settings {
	return Settings{
		DataDir:       ".gravsim",
		LogLevel:      "info",
		FPS:           60,
		ScreenSize:    1000,
		ScreenSizeAU:  10,
		StepsPerFrame: 10,
	}
}

// NewViper returns a viper instance searching gravsim.yaml in
// $HOME/.gravsim and the working directory, with GRAVSIM_* env overrides.
func NewViper() *viper.Viper {
	v := viper.New()

	d := DefaultSettings()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("fps", d.FPS)
	v.SetDefault("screen_size", d.ScreenSize)
	v.SetDefault("screen_size_au", d.ScreenSizeAU)
	v.SetDefault("steps_per_frame", d.StepsPerFrame)

	v.SetConfigName("gravsim")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".gravsim"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("GRAVSIM")
	v.AutomaticEnv()
	return v
}

// LoadSettings reads settings through v. A missing config file is not an
// error; an explicit one set with SetConfigFile must exist.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	if s.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if s.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", s.FPS)
	}
	if s.ScreenSize <= 0 {
		return fmt.Errorf("screen_size must be positive, got %d", s.ScreenSize)
	}
	if s.ScreenSizeAU <= 0 {
		return fmt.Errorf("screen_size_au must be positive, got %g", s.ScreenSizeAU)
	}
	if s.StepsPerFrame <= 0 {
		return fmt.Errorf("steps_per_frame must be positive, got %d", s.StepsPerFrame)
	}
	return nil
}
