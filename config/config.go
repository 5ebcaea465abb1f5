package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env if present; a missing file is fine, env vars can
// be set by other means.
func LoadEnv() {
	_ = godotenv.Load()
	log.Println("Environment variables loaded (if .env present)")
}
