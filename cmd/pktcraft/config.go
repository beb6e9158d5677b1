package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/veyra-net/pktcraft/pktlog"
)

// Config is the demo CLI's own configuration, loaded through viper the
// way the teacher's internal/otus/config.Load does: split the path into
// directory/basename/extension, point viper at it, then let mapstructure
// tags on Config decode the parsed tree.
type Config struct {
	Log pktlog.Config `mapstructure:"log"`
}

func defaultConfig() Config {
	return Config{Log: pktlog.Config{Level: "info", Format: "text"}}
}

// loadConfig reads path if non-empty, otherwise returns defaults; a
// missing file at an explicitly requested path is an error, mirroring
// the teacher's ReadInConfig failure handling.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	dir := filepath.Dir(path)
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	v.SetConfigName(strings.TrimSuffix(filename, ext))
	v.SetConfigType(strings.TrimPrefix(ext, "."))
	v.AddConfigPath(dir)
	v.SetEnvPrefix("PKTCRAFT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
