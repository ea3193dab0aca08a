package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// config holds hpackdump's defaults, loaded from a small YAML file. The
// core hpack package itself takes no config file; these are purely this
// command's own operability knobs.
type config struct {
	MaxTableSize int    `yaml:"max_table_size"`
	Color        string `yaml:"color"` // "auto", "always", "never"
}

func defaultConfig() config {
	return config{MaxTableSize: 4096, Color: "auto"}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
