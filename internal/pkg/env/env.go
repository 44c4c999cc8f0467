package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env holds the key/value pairs read from the .env file. OS environment
// variables take over for keys the file does not define.
var Env map[string]string

// SetupEnvFile reads the nearest .env file. Running without one is fine
// (containers and CI inject everything through the OS environment).
func SetupEnvFile() {
	for _, candidate := range []string{
		".env",
		"../../.env", // started from cmd/safesuburb or cmd/migrate
		"../../../.env",
	} {
		if m, err := godotenv.Read(candidate); err == nil {
			Env = m
			return
		}
	}
	Env = map[string]string{}
}

// GetEnv resolves key from the .env map, then the OS environment, then def.
func GetEnv(key, def string) string {
	if val, ok := Env[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt is GetEnv for numeric settings. Unparsable values fall back
// to def rather than aborting startup.
func GetEnvInt(key string, def int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
