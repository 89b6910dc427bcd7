package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New()

// Config holds the application's configuration, loaded from config/.env and
// the process environment.
type Config struct {
	// ArtifactoryURL is the base URL of the Artifactory instance, including
	// scheme (e.g. https://artifactory.example.com).
	ArtifactoryURL string `validate:"required,url"`
	// Token is a bearer token used for requests. Either Token or
	// Username+APIKey must be set.
	Token string
	// Username and APIKey are the basic-auth fallback when no token is set.
	Username string
	APIKey   string
	// XrayURL is the base URL for Xray APIs; defaults to ArtifactoryURL.
	XrayURL string `validate:"omitempty,url"`
	// Workers is the worker-pool size for parallel per-item API calls.
	Workers int `validate:"required,min=1"`
	// DryRun skips every mutating API call and logs what would be sent.
	DryRun bool
	// APIHost, Port, and APIToken configure the HTTP API mode (serve).
	APIHost  string `validate:"required"`
	Port     int    `validate:"required,min=1,max=65535"`
	APIToken string
	// DatabaseURL is the optional Postgres connection string for the
	// reporting queries (db-stats).
	DatabaseURL string
}

// Load loads and validates the full application configuration.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile("config/.env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetDefault("API_HOST", "127.0.0.1")
	v.SetDefault("PORT", 5000)
	v.SetDefault("NUM_WORKERS", 3)

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	appConfig := &Config{
		ArtifactoryURL: v.GetString("ARTIFACTORY_HOST"),
		Token:          v.GetString("ARTIFACTORY_TOKEN"),
		Username:       v.GetString("ARTIFACTORY_USER"),
		APIKey:         v.GetString("ARTIFACTORY_APIKEY"),
		XrayURL:        v.GetString("XRAY_HOST"),
		Workers:        v.GetInt("NUM_WORKERS"),
		DryRun:         v.GetBool("DRY_RUN"),
		APIHost:        v.GetString("API_HOST"),
		Port:           v.GetInt("PORT"),
		APIToken:       v.GetString("API_TOKEN"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
	}

	if appConfig.XrayURL == "" {
		appConfig.XrayURL = appConfig.ArtifactoryURL
	}

	// Validate: a bearer token or a user/apikey pair must be present
	if appConfig.Token == "" && (appConfig.Username == "" || appConfig.APIKey == "") {
		return nil, fmt.Errorf("either ARTIFACTORY_TOKEN or ARTIFACTORY_USER and ARTIFACTORY_APIKEY must be set")
	}

	if err := validate.Struct(appConfig); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return appConfig, nil
}
