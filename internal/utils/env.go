package utils

import "github.com/joho/godotenv"

// LoadEnv merges .env into the process environment. It must run before
// NewLogger and config.LoadConfig, which both read os.Getenv.
func LoadEnv() error {
	return godotenv.Load()
}
