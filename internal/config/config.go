package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	RatesURL     string
	HistoryURL   string
	FetchTimeout time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// The first chart is warmed up for this pair shortly after startup,
	// without blocking the initial rate load.
	TrendFrom        string
	TrendTo          string
	TrendWarmupDelay time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_PATH", "data")
	viper.SetDefault("RATES_URL", "https://cdn.moneyconvert.net/api/latest.json")
	viper.SetDefault("HISTORY_URL", "https://api.frankfurter.app")
	viper.SetDefault("FETCH_TIMEOUT", "10s")
	viper.SetDefault("SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "120s")
	viper.SetDefault("TREND_FROM", "USD")
	viper.SetDefault("TREND_TO", "PEN")
	viper.SetDefault("TREND_WARMUP_DELAY", "1s")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:             viper.GetString("PORT"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
		DBPath:           viper.GetString("DB_PATH"),
		RatesURL:         viper.GetString("RATES_URL"),
		HistoryURL:       viper.GetString("HISTORY_URL"),
		FetchTimeout:     getDuration("FETCH_TIMEOUT", 10*time.Second),
		ReadTimeout:      getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:     getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:      getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		TrendFrom:        viper.GetString("TREND_FROM"),
		TrendTo:          viper.GetString("TREND_TO"),
		TrendWarmupDelay: getDuration("TREND_WARMUP_DELAY", time.Second),
	}

	return cfg, nil
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return fallback
	}
	return value
}
