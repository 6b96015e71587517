package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config aggregates all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Amadeus AmadeusConfig `yaml:"amadeus"`
	Cache   CacheConfig   `yaml:"cache"`
	Bridge  BridgeConfig  `yaml:"bridge"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
}

type AmadeusConfig struct {
	ClientID     string `yaml:"client_id" env:"AMADEUS_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"AMADEUS_CLIENT_SECRET"`
	Production   bool   `yaml:"production" env:"AMADEUS_PRODUCTION" env-default:"false"`
	// Timeout for a single upstream round trip, in seconds
	Timeout int `yaml:"timeout" env:"AMADEUS_TIMEOUT" env-default:"30"`
	// FlightLimit caps flight offers per search, HotelLimit caps the
	// candidate hotel ids carried into the offer phase
	FlightLimit int `yaml:"flight_limit" env:"AMADEUS_FLIGHT_LIMIT" env-default:"10"`
	HotelLimit  int `yaml:"hotel_limit" env:"AMADEUS_HOTEL_LIMIT" env-default:"5"`
}

type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" env:"CACHE_ENABLED" env-default:"false"`
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"10m"`
}

type BridgeConfig struct {
	// Command launches the planning workflow; Args are passed verbatim
	Command string   `yaml:"command" env:"BRIDGE_COMMAND"`
	Args    []string `yaml:"args" env:"BRIDGE_ARGS"`
	// Timeout bounds the whole workflow run, in seconds
	Timeout int `yaml:"timeout" env:"BRIDGE_TIMEOUT" env-default:"1000"`
}

// Load reads configuration from config.yaml and environment variables.
// Priority: Env Vars > Config File > Defaults
func Load() (*Config, error) {
	var cfg Config

	// Read config.yaml when present, then override with env vars.
	if err := cleanenv.ReadConfig("config.yaml", &cfg); err != nil {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	}

	return &cfg, nil
}
