package fs

import "github.com/spf13/viper"

// Config locates the directory holding one file per object. Directory is
// either a local path or an afs URL such as mem://localhost/pal.
type Config struct {
	Directory string
}

func GetConfig() (*Config, error) {
	var conf Config
	err := viper.UnmarshalKey("fs", &conf)
	if err != nil {
		return nil, err
	}
	if conf.Directory == "" {
		conf.Directory = "."
	}
	return &conf, nil
}
