package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Providers Providers `mapstructure:"providers"`
	Cache     Cache     `mapstructure:"cache"`
	LLM       LLM       `mapstructure:"llm"`
	Advisor   Advisor   `mapstructure:"advisor"`
	Logger    Logger    `mapstructure:"logger"`
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
}

// Providers holds credentials and limits for the market data sources.
// Quote sources are tried in the order AlphaVantage -> RapidAPI -> Yahoo;
// Yahoo needs no key and acts as the free unlimited fallback.
type Providers struct {
	AlphaVantage AlphaVantage `mapstructure:"alphavantage"`
	RapidAPI     RapidAPI     `mapstructure:"rapidapi"`
	Tavily       Tavily       `mapstructure:"tavily"`
}

// AlphaVantage holds the configuration for the Alpha Vantage API.
type AlphaVantage struct {
	ApiKey         string  `mapstructure:"api_key"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// RapidAPI holds the configuration for the RapidAPI quote endpoint.
type RapidAPI struct {
	ApiKey string `mapstructure:"api_key"`
	Host   string `mapstructure:"host"`
}

// Tavily holds the configuration for the Tavily news search API.
type Tavily struct {
	ApiKey     string `mapstructure:"api_key"`
	MaxResults int    `mapstructure:"max_results"`
}

// Cache holds the per-kind TTLs for the in-process market data cache,
// in seconds.
type Cache struct {
	QuoteTTL        int `mapstructure:"quote_ttl"`
	FundamentalsTTL int `mapstructure:"fundamentals_ttl"`
	NewsTTL         int `mapstructure:"news_ttl"`
	// MaxStale bounds how old an entry may be when it is served as a last
	// resort after all live sources fail, in seconds. Zero means no bound.
	MaxStale int `mapstructure:"max_stale"`
}

// LLM holds the configuration for the chat completion backend.
type LLM struct {
	BaseURL     string  `mapstructure:"base_url"`
	ApiKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

// Advisor holds the configuration for the analysis pipeline.
type Advisor struct {
	DefaultSymbol string `mapstructure:"default_symbol"`
}

// Server holds the configuration for the dashboard server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
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
	viper.SetDefault("providers.alphavantage.rate_limit", 1) // requests per second
	viper.SetDefault("providers.alphavantage.rate_limit_burst", 1)
	viper.SetDefault("providers.tavily.max_results", 5)
	viper.SetDefault("cache.quote_ttl", 60)           // quotes go stale quickly
	viper.SetDefault("cache.fundamentals_ttl", 43200) // half a day
	viper.SetDefault("cache.news_ttl", 1800)
	viper.SetDefault("cache.max_stale", 0) // unbounded, preserves the last-resort policy
	viper.SetDefault("llm.model", "gpt-4o")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("advisor.default_symbol", "AAPL")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.dsn", "advisor.db")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
