package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Market   Market   `mapstructure:"market"`
	Risk     Risk     `mapstructure:"risk"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Market holds the configuration for the market data client and the poller.
type Market struct {
	BaseURL        string   `mapstructure:"base_url"`
	Symbols        []string `mapstructure:"symbols"`
	PollInterval   int      `mapstructure:"poll_interval"`
	RateLimit      float64  `mapstructure:"rate_limit"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
}

// Risk holds the user's risk preferences applied to every suggestion.
type Risk struct {
	Tolerance           string  `mapstructure:"tolerance"`
	DefaultPositionSize float64 `mapstructure:"default_position_size"`
	MaxPositions        int     `mapstructure:"max_positions"`
	TrailingStops       bool    `mapstructure:"trailing_stops"`
	MaxHoldHours        int     `mapstructure:"max_hold_hours"`
}

// Server holds the configuration for the dashboard web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the position archive database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("market.base_url", "https://api.binance.com/api/v3")
	viper.SetDefault("market.poll_interval", 30)   // seconds between polls
	viper.SetDefault("market.rate_limit", 20)      // requests per second
	viper.SetDefault("market.rate_limit_burst", 5) // burst size
	viper.SetDefault("risk.tolerance", "medium")
	viper.SetDefault("risk.default_position_size", 100)
	viper.SetDefault("risk.max_positions", 5)
	viper.SetDefault("risk.trailing_stops", true)
	viper.SetDefault("risk.max_hold_hours", 24)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
