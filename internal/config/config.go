package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	HTTPPort        string
	DatabaseDSN     string
	JWTSecret       string
	CORSOrigins     string
	AdminInviteCode string
	DeliveryFee     int64 // Flat fee per order, minor currency units
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:        getEnv("PORT", "3000"),
		DatabaseDSN:     getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=farmbasket port=5432 sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AdminInviteCode: getEnv("ADMIN_INVITE_CODE", ""),
		DeliveryFee:     getEnvInt64("DELIVERY_FEE", 15000),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set. It is required to sign session tokens.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters.")
	}
	if cfg.AdminInviteCode == "" {
		log.Println("[WARN] ADMIN_INVITE_CODE is not set, admin self-registration is disabled")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		log.Printf("[WARN] %s is not a valid integer, using default %d", key, def)
	}
	return def
}
