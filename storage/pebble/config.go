package pebble

import "github.com/spf13/viper"

type Config struct {
	Path string
}

func GetConfig() (*Config, error) {
	var conf Config
	err := viper.UnmarshalKey("pebble", &conf)
	if err != nil {
		return nil, err
	}
	if conf.Path == "" {
		conf.Path = "p11pal.pebble"
	}
	return &conf, nil
}
