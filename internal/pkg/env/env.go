package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Env holds the key/value pairs read from the .env file. Process environment
// variables still win as a fallback so container deployments work without a
// file on disk.
var Env map[string]string

// candidate .env locations relative to the working directory; the later
// entries cover running from cmd/genbuddy or cmd/migrate.
var envFiles = []string{".env", "../../.env", "../../../.env"}

// SetupEnvFile loads the first .env file it finds. Running without one is
// fine, the process environment is used instead.
func SetupEnvFile() {
	for _, f := range envFiles {
		m, err := godotenv.Read(f)
		if err == nil {
			Env = m
			return
		}
	}
	log.Println("env: no .env file found, using process environment only")
}

// GetEnv returns the value for key from the .env file, then the process
// environment, then def.
func GetEnv(key, def string) string {
	if v, ok := Env[key]; ok {
		return v
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
