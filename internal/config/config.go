package config

import (
	"os"
	"strconv"
)

type MidtransConfig struct {
	ServerKey    string
	ClientKey    string
	IsProduction bool
}

type OrdersConfig struct {
	ExpireMinutes        int
	SweepIntervalSeconds int
}

type Config struct {
	Midtrans MidtransConfig
	Orders   OrdersConfig
}

func LoadConfig() *Config {
	cfg := &Config{}

	// Midtrans config
	cfg.Midtrans.ServerKey = os.Getenv("MIDTRANS_SERVER_KEY")
	cfg.Midtrans.ClientKey = os.Getenv("MIDTRANS_CLIENT_KEY")
	cfg.Midtrans.IsProduction = os.Getenv("MIDTRANS_IS_PRODUCTION") == "true"

	// Order lifecycle config
	cfg.Orders.ExpireMinutes = getEnvInt("ORDER_EXPIRE_MINUTES", 15)
	cfg.Orders.SweepIntervalSeconds = getEnvInt("ORDER_SWEEP_INTERVAL_SECONDS", 60)

	return cfg
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
