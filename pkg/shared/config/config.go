package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigPath is used when --config is not provided.
const DefaultConfigPath = "config.yml"

type Config struct {
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Tracker    Tracker    `yaml:"tracker"`
	Importer   Importer   `yaml:"importer"`
}

type Logger struct {
	Level string `yaml:"level"`
}

type HTTPClient struct {
	Debug           *bool           `yaml:"debug"`
	Timeout         time.Duration   `yaml:"timeout"`
	TLSClientConfig TLSClientConfig `yaml:"tls_client_config"`
	Proxy           Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Tracker selects the issue tracker backend. BaseURL is only needed for
// GitHub Enterprise or self-hosted GitLab.
type Tracker struct {
	Kind    string `yaml:"kind"`
	BaseURL string `yaml:"base_url"`
}

// Importer holds run defaults that flags can override.
type Importer struct {
	WaitTime         time.Duration `yaml:"wait_time"`
	RateLimitRetries int           `yaml:"rate_limit_retries"`
	RateLimitBackoff time.Duration `yaml:"rate_limit_backoff"`
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the YAML config at configPath. A missing file at the
// default location is not an error: the importer runs on defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if configPath == "" {
		configPath = DefaultConfigPath
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) && configPath == DefaultConfigPath {
		return config, nil
	}

	if err := LoadYAML(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}
