package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// UnconfiguredEndpoint is the placeholder left in a fresh deployment. While
// the endpoint still contains it the station runs on the built-in menu.
const UnconfiguredEndpoint = "https://script.google.com/macros/s/YOUR_SCRIPT_ID/exec"

type Config struct {
	Port        string `mapstructure:"port"`
	LogLevel    string `mapstructure:"log_level"`
	DatabaseURL string `mapstructure:"database_url"`

	APIEndpoint    string        `mapstructure:"api_endpoint"`
	GatewayTimeout time.Duration `mapstructure:"gateway_timeout"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	BusyTTL       time.Duration `mapstructure:"busy_ttl"`

	StationTable         string        `mapstructure:"station_table"`
	StationOrderType     string        `mapstructure:"station_order_type"`
	StockConfirmationTTL time.Duration `mapstructure:"stock_confirmation_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("database_url", "")

	v.SetDefault("api_endpoint", UnconfiguredEndpoint)
	v.SetDefault("gateway_timeout", 30*time.Second)

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("busy_ttl", time.Minute)

	v.SetDefault("station_table", "8")
	v.SetDefault("station_order_type", "Dine In")
	v.SetDefault("stock_confirmation_ttl", 3*time.Second)
}

// Load reads the station settings from the environment (PORT, API_ENDPOINT,
// REDIS_ADDR, ...). godotenv has already merged .env into it by then.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.APIEndpoint = strings.TrimSpace(cfg.APIEndpoint)
	if cfg.GatewayTimeout <= 0 {
		return nil, fmt.Errorf("gateway_timeout must be positive, got %s", cfg.GatewayTimeout)
	}
	if cfg.StockConfirmationTTL < 0 {
		return nil, fmt.Errorf("stock_confirmation_ttl must not be negative")
	}
	return &cfg, nil
}
