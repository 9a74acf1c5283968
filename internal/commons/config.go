package commons

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	"easyorder/internal/config"
)

// LoadConfig reads a flat YAML file (keys named like the environment variables) and layers the
// environment on top. A missing file is not an error.
func LoadConfig(path string) (*config.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}
