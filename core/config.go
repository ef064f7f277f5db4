package core

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/niclabs/p11pal/objects"
)

// LoadConfig reads the config file named "config" from the usual places.
// path, when not empty, names the file to use instead. A missing config
// file is not an error: every key has a default.
func LoadConfig(path string) error {
	viper.SetDefault("general.loglevel", "info")
	viper.SetDefault("pal.storagetype", "fs")
	viper.SetDefault("fs.directory", ".")
	viper.SetEnvPrefix("p11pal")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("/etc/p11pal/")
		viper.AddConfigPath("$HOME/.p11pal")
		viper.AddConfigPath("./")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

type Config struct {
	General GeneralConfig
	PAL     PALConfig
}

type GeneralConfig struct {
	LogFile  string
	LogLevel string
}

type PALConfig struct {
	StorageType   string
	MaxObjectSize int
	Labels        objects.Labels
}

func GetConfig() (*Config, error) {
	var conf Config
	err := viper.Unmarshal(&conf)
	if err != nil {
		return nil, err
	}
	return &conf, nil
}
