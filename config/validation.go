package config

import (
	"fmt"
	"strconv"
)

// ValidateConfig checks that required fields are present and sane.
func ValidateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" && GetEnvironment() == Production {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if cfg.DBName == "" {
		return fmt.Errorf("DB_NAME must not be empty")
	}
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return fmt.Errorf("SERVER_PORT %q is not a number", cfg.ServerPort)
	}
	if _, err := strconv.Atoi(cfg.DBPort); err != nil {
		return fmt.Errorf("DB_PORT %q is not a number", cfg.DBPort)
	}
	return nil
}
