package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// Database
	DatabaseURL   string
	MigrationsDir string
	// Outbound provider endpoints
	WeatherURL  string
	TimeURL     string
	NewsFeedURL string
	RatesURL    string
	// City named in weather replies when the request carries no location
	DefaultCity string
	// Timeout applied to every outbound lookup
	LookupTimeout time.Duration
	// Optional YAML file overriding the built-in reply tables
	PersonaFile string
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:          getEnvDefault("PORT", "8080"),
		AllowedOrigin: getEnvDefault("ALLOWED_ORIGIN", "*"),
		DatabaseURL:   os.Getenv("DB_URL"),
		MigrationsDir: getEnvDefault("MIGRATIONS_DIR", "./migrations"),
		WeatherURL:    getEnvDefault("WEATHER_URL", "https://api.open-meteo.com/v1/forecast?latitude=52.52&longitude=13.41&current_weather=true"),
		TimeURL:       getEnvDefault("TIME_URL", "http://worldtimeapi.org/api/timezone/Europe/Berlin"),
		NewsFeedURL:   getEnvDefault("NEWS_FEED_URL", "https://www.tagesschau.de/xml/rss2/"),
		RatesURL:      getEnvDefault("RATES_URL", "https://api.frankfurter.app/latest?from=EUR&to=USD"),
		DefaultCity:   getEnvDefault("DEFAULT_CITY", "Berlin"),
		LookupTimeout: getEnvDurationDefault("LOOKUP_TIMEOUT", 20*time.Second),
		PersonaFile:   getEnvDefault("PERSONA_FILE", "./prompts/persona.yaml"),
	}
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
