package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	HTTPPort int `yaml:"http_port"`

	RestaurantName     string `yaml:"restaurant_name"`
	Currency           string `yaml:"currency"`
	DestinationContact string `yaml:"destination_contact"`
	DeliveryFee        int64  `yaml:"delivery_fee"`
	StorePath          string `yaml:"store_path"`
}

// Load resolves config in three layers: defaults, then an optional YAML
// file named by STOREFRONT_CONFIG, then environment variables.
func Load() Config {
	cfg := Config{
		AppEnv:             "dev",
		LogLevel:           "info",
		HTTPPort:           8080,
		RestaurantName:     "Levant House",
		Currency:           "EGP",
		DestinationContact: "+201279102786",
		DeliveryFee:        15,
		StorePath:          "storefront.db",
	}

	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(raw, &cfg)
		}
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.RestaurantName = getEnv("RESTAURANT_NAME", cfg.RestaurantName)
	cfg.Currency = getEnv("CURRENCY", cfg.Currency)
	cfg.DestinationContact = getEnv("DESTINATION_CONTACT", cfg.DestinationContact)
	cfg.DeliveryFee = getEnvInt64("DELIVERY_FEE", cfg.DeliveryFee)
	cfg.StorePath = getEnv("STORE_PATH", cfg.StorePath)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvInt64(key string, def int64) int64 {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}

	return n
}
