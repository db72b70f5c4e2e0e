package properties

import (
	"fmt"
	"os"
)

const (
	defaultTokenURL   = "https://identity.dataspace.copernicus.eu/auth/realms/CDSE/protocol/openid-connect/token"
	defaultProcessURL = "https://sh.dataspace.copernicus.eu/api/v1/process"
	defaultCatalogURL = "https://sh.dataspace.copernicus.eu/api/v1/catalog/1.0.0/search"
)

// Config carries everything the pipeline reads from the environment. It is
// built once in main and passed down explicitly; nothing below cmd touches
// os.Getenv.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	ProcessURL   string
	CatalogURL   string

	DiscordSuccessWebhook string
	DiscordErrorWebhook   string

	LogLevel string
}

// FromEnv builds a Config from the process environment. The Copernicus client
// credentials are required; everything else has a default or is optional.
func FromEnv() (Config, error) {
	cfg := Config{
		ClientID:              os.Getenv("COPERNICUS_CLIENT_ID"),
		ClientSecret:          os.Getenv("COPERNICUS_CLIENT_SECRET"),
		TokenURL:              os.Getenv("COPERNICUS_TOKEN_URL"),
		ProcessURL:            os.Getenv("COPERNICUS_PROCESS_URL"),
		CatalogURL:            os.Getenv("COPERNICUS_CATALOG_URL"),
		DiscordSuccessWebhook: os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL"),
		DiscordErrorWebhook:   os.Getenv("DISCORD_ERROR_NOTIFICATION_URL"),
		LogLevel:              os.Getenv("LOG_LEVEL"),
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return Config{}, fmt.Errorf("missing required environment variables: COPERNICUS_CLIENT_ID, COPERNICUS_CLIENT_SECRET")
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.ProcessURL == "" {
		cfg.ProcessURL = defaultProcessURL
	}
	if cfg.CatalogURL == "" {
		cfg.CatalogURL = defaultCatalogURL
	}
	return cfg, nil
}
