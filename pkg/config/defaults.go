// Package config provides centralized default values for the town
// server, loaded once from the environment with optional .env overrides
// (godotenv), mirroring the teacher's env-driven config package but
// trimmed to this domain's settings.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/coveytown/townserver/internal/infrastructure/security"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("config: loaded overrides from .env file")
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("config: override %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("config: override %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("config: override %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// HTTP server
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration

	// CORS
	CORSAllowOrigins []string

	// Media token broker
	BrokerTimeout time.Duration
	JWTSigningKey string

	// Town limits
	MaxOccupancyPerTown int
)

var jwtKeyIsStable bool

func init() {
	loadEnvFile()

	Port = getEnvString("PORT", "8081")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	origins := getEnvString("CORS_ALLOW_ORIGINS", "*")
	CORSAllowOrigins = strings.Split(origins, ",")
	for i := range CORSAllowOrigins {
		CORSAllowOrigins[i] = strings.TrimSpace(CORSAllowOrigins[i])
	}

	BrokerTimeout = getEnvDuration("BROKER_TIMEOUT", 5*time.Second)
	MaxOccupancyPerTown = getEnvInt("MAX_OCCUPANCY_PER_TOWN", 100)

	JWTSigningKey = os.Getenv("JWT_SIGNING_KEY")
	jwtKeyIsStable = JWTSigningKey != ""
	if !jwtKeyIsStable {
		generated, err := security.GenerateSecureKey(64)
		if err != nil {
			panic("config: failed to mint an ephemeral JWT signing key: " + err.Error())
		}
		JWTSigningKey = generated
		log.Println("config: JWT_SIGNING_KEY not set, using an ephemeral key for this process's lifetime")
	}
}

// JWTKeyIsStable reports whether the signing key came from the
// environment (survives restarts) rather than being minted fresh for
// this process.
func JWTKeyIsStable() bool {
	return jwtKeyIsStable
}
