package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

func loadDotenv() {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found. Falling back to OS environment variables.")
		}
	})
}

// Config returns the value of a required environment variable and exits the
// process when it is not set.
func Config(envVar string) string {
	loadDotenv()

	envVarValue := os.Getenv(envVar)
	if envVarValue == "" {
		fmt.Fprintf(os.Stderr, "%s not set\n", envVar)
		os.Exit(1)
	}

	return envVarValue
}

// ConfigOr returns the value of an environment variable or def when unset.
func ConfigOr(envVar, def string) string {
	loadDotenv()

	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return def
}
