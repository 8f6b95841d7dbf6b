package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v2"

	"cardiorisk/logging"
)

type Config struct {
	HTTP struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"http"`
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	Log     logging.Config `yaml:"log"`
	Predict struct {
		StrictBloodPressure bool `yaml:"strict_blood_pressure"`
	} `yaml:"predict"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = 8000
	cfg.HTTP.Timeout = 30 * time.Second
	cfg.HTTP.MaxBodyBytes = 1 << 20
	cfg.HTTP.AllowedOrigins = []string{"*"}
	cfg.Model.Path = "model.json"
	cfg.Log = logging.DefaultConfig()
	return cfg
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = multierror.Append(errs, fmt.Errorf("http.port %d out of range", c.HTTP.Port))
	}
	if c.HTTP.Timeout <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("http.timeout must be positive"))
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("http.max_body_bytes must be positive"))
	}
	if c.Model.Path == "" {
		errs = multierror.Append(errs, fmt.Errorf("model.path is required"))
	}
	if err := c.Log.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}
