// Package config loads the harness configuration from the environment and an optional
// .env file. Real environment variables always take precedence over values from the file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	apiKeyVar     = "SERVER_API_KEY"
	serviceURLVar = "SERVER_URL"
	modelVar      = "SERVER_MODEL"
)

const (
	defaultServiceURL     = "http://localhost:8000"
	defaultModel          = "gpt-4o-mini"
	DefaultRequestTimeout = time.Second * 30
)

type Config struct {
	ServiceURL string
	APIKey     string
	Model      string
}

// MissingKeyError indicates that a required configuration variable was not set anywhere.
// This is fatal: the harness refuses to start a run it knows cannot authenticate.
type MissingKeyError struct {
	Key     string
	EnvFile string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s is not set (checked the environment and %s)", e.Key, e.EnvFile)
}

// Load reads configuration from the process environment, falling back to the named .env
// file for any variable that is unset. A missing .env file is not an error; a missing
// API key is.
func Load(envFile string) (Config, error) {
	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("could not read %s: %w", envFile, err)
		}
		fileVars = nil
	}

	lookup := func(name string) string {
		if value := os.Getenv(name); value != "" {
			return value
		}
		return fileVars[name]
	}

	c := Config{
		ServiceURL: lookup(serviceURLVar),
		APIKey:     lookup(apiKeyVar),
		Model:      lookup(modelVar),
	}
	if c.APIKey == "" {
		return Config{}, &MissingKeyError{Key: apiKeyVar, EnvFile: envFile}
	}
	if c.ServiceURL == "" {
		c.ServiceURL = defaultServiceURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	return c, nil
}
