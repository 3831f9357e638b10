package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	ServerPort        string `mapstructure:"server_port"`
	TesseractDataPath string `mapstructure:"tessdata_prefix"`
	TesseractLanguage string `mapstructure:"tesseract_language"`
	MaxFileSize       int64  `mapstructure:"max_file_size"`
	MaxWorkers        int    `mapstructure:"max_workers"`
	EnableOCR         bool   `mapstructure:"enable_ocr"`
	MinTextLength     int    `mapstructure:"min_text_length"`
	RulesFile         string `mapstructure:"rules_file"`
	DatabasePath      string `mapstructure:"database_path"`
	LogLevel          string `mapstructure:"log_level"`
}

// envKeys maps each setting to the environment variable that overrides it.
var envKeys = map[string]string{
	"server_port":        "SERVER_PORT",
	"tessdata_prefix":    "TESSDATA_PREFIX",
	"tesseract_language": "TESSERACT_LANGUAGE",
	"max_file_size":      "MAX_FILE_SIZE",
	"max_workers":        "MAX_WORKERS",
	"enable_ocr":         "ENABLE_OCR",
	"min_text_length":    "MIN_TEXT_LENGTH",
	"rules_file":         "RULES_FILE",
	"database_path":      "DATABASE_PATH",
	"log_level":          "LOG_LEVEL",
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("tessdata_prefix", "/usr/share/tesseract-ocr/5/tessdata/")
	v.SetDefault("tesseract_language", "por+eng")
	v.SetDefault("max_file_size", 10*1024*1024) // 10 MB
	v.SetDefault("max_workers", 4)
	v.SetDefault("enable_ocr", true)
	v.SetDefault("min_text_length", 50)
	v.SetDefault("rules_file", "")
	v.SetDefault("database_path", "")
	v.SetDefault("log_level", "info")

	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}
}

// LoadConfig reads defaults, the optional file named by ACCESSKEY_CONFIG and
// the environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	_ = v.BindEnv("config", "ACCESSKEY_CONFIG")
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("max_file_size must be positive, got %d", cfg.MaxFileSize)
	}
	if cfg.MaxWorkers < 0 {
		return nil, fmt.Errorf("max_workers must not be negative, got %d", cfg.MaxWorkers)
	}
	return &cfg, nil
}

// NewLogger builds a production zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
