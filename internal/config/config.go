package config

import (
	"errors"
	"fmt"

	"vet-hospital-api/internal/geodesy"
	"vet-hospital-api/internal/pipeline"
	"vet-hospital-api/internal/registry"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// Values are read from app.env in the config path and overridden by environment variables.
type Config struct {
	DBSource        string   `mapstructure:"DB_SOURCE"`
	ServerAddress   string   `mapstructure:"SERVER_ADDRESS"`
	InputPath       string   `mapstructure:"INPUT_PATH"`
	InputEncoding   string   `mapstructure:"INPUT_ENCODING"`
	OutputPath      string   `mapstructure:"OUTPUT_PATH"`
	Projection      string   `mapstructure:"PROJECTION"`
	SpecialKeywords []string `mapstructure:"SPECIAL_KEYWORDS"`
	ResultLimit     int      `mapstructure:"RESULT_LIMIT"`
	ValidateHeader  bool     `mapstructure:"VALIDATE_HEADER"`
	Workers         int      `mapstructure:"WORKERS"`
	ScanRowLimit    int      `mapstructure:"SCAN_ROW_LIMIT"`
	LogLevel        string   `mapstructure:"LOG_LEVEL"`
	LogFormat       string   `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]interface{}{
	"DB_SOURCE":        "",
	"SERVER_ADDRESS":   "0.0.0.0:8080",
	"INPUT_PATH":       "동물_동물병원.csv",
	"INPUT_ENCODING":   "euc-kr",
	"OUTPUT_PATH":      "public/data/hospitals.json",
	"PROJECTION":       geodesy.ModifiedCentralBelt,
	"SPECIAL_KEYWORDS": registry.DefaultSpecialKeywords,
	"RESULT_LIMIT":     5,
	"VALIDATE_HEADER":  true,
	"WORKERS":          1,
	"SCAN_ROW_LIMIT":   200000,
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "text",
}

// LoadConfig reads configuration from app.env under path (if present) and the environment
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: read app.env: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: decode: %w", err)
	}

	err = config.Validate()
	return config, err
}

// Validate rejects settings the pipeline cannot run with
func (c Config) Validate() error {
	if c.Projection != geodesy.Auto {
		if _, err := geodesy.Lookup(c.Projection); err != nil {
			return fmt.Errorf("config: PROJECTION: %w", err)
		}
	}
	if c.ResultLimit <= 0 {
		return fmt.Errorf("config: RESULT_LIMIT must be positive, got %d", c.ResultLimit)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("config: WORKERS must be positive, got %d", c.Workers)
	}
	return nil
}

// Pipeline builds the registry pass settings from the configuration
func (c Config) Pipeline() pipeline.Settings {
	set := pipeline.DefaultSettings()
	set.Encoding = c.InputEncoding
	set.Projection = c.Projection
	set.Keywords = c.SpecialKeywords
	set.ValidateHeader = c.ValidateHeader
	set.Workers = c.Workers
	return set
}
