package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by CREDAL_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("CREDAL_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL returns the Postgres connection string for the scenario
// registry. Empty means the registry is disabled and only the stateless
// reasoning endpoints are served.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// MaxWorlds returns the world-space size guard. The belief table
// materializes 2^|S| entries, so this stays small. Defaults to 16.
func MaxWorlds() int {
	n, err := strconv.Atoi(os.Getenv("MAX_WORLDS"))
	if err != nil || n <= 0 {
		return 16
	}
	return n
}

// MaxPieces returns the evidence size guard bounding the 2^|E|
// sub-collection walk of the sd_min reasoner. Defaults to 16.
func MaxPieces() int {
	n, err := strconv.Atoi(os.Getenv("MAX_PIECES"))
	if err != nil || n <= 0 {
		return 16
	}
	return n
}

// MassTolerance returns the tolerance for sum-to-one and conflict checks.
// Defaults to 1e-9 if not set.
func MassTolerance() float64 {
	tol, err := strconv.ParseFloat(os.Getenv("MASS_TOLERANCE"), 64)
	if err != nil || tol <= 0 {
		return 1e-9
	}
	return tol
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
