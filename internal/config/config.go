package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// SKU is one assignable license bundle (title shown to users, skuId sent to Graph).
type SKU struct {
	Title string `json:"title"`
	SkuID string `json:"skuId"`
}

// Config holds application configuration (env + Viper).
type Config struct {
	Env                  string
	Port                 string
	DatabaseURL          string
	RedisURL             string
	ClientID             string // Azure AD application (client) id
	TenantID             string
	ClientSecret         string
	AdminUsername        string
	AdminPassword        string // plain shared secret, or a bcrypt hash ($2a$/$2b$ prefix)
	InvitationCodeLength int
	UsageLocation        string
	Domains              []string
	SKUs                 []SKU
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	codeLength := viper.GetInt("INVITATION_CODE_LENGTH")
	if codeLength <= 0 {
		codeLength = 8
	}
	usageLocation := viper.GetString("USAGE_LOCATION")
	if usageLocation == "" {
		usageLocation = "CN"
	}

	cfg := &Config{
		Env:                  env,
		Port:                 port,
		DatabaseURL:          viper.GetString("DATABASE_URL"),
		RedisURL:             viper.GetString("REDIS_URL"),
		ClientID:             viper.GetString("CLIENT_ID"),
		TenantID:             viper.GetString("TENANT_ID"),
		ClientSecret:         viper.GetString("CLIENT_SECRET"),
		AdminUsername:        viper.GetString("ADMIN_USERNAME"),
		AdminPassword:        viper.GetString("ADMIN_PASSWORD"),
		InvitationCodeLength: codeLength,
		UsageLocation:        usageLocation,
		Domains:              parseDomains(viper.GetString("DOMAINS")),
		SKUs:                 parseSKUs(viper.GetString("SKUS")),
	}

	if cfg.ClientID == "" || cfg.TenantID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("CLIENT_ID, TENANT_ID and CLIENT_SECRET are required")
	}
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}

func parseDomains(s string) []string {
	var out []string
	for _, d := range strings.Split(s, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		out = []string{"onmicrosoft.com"}
	}
	return out
}

// parseSKUs parses "title=skuId" pairs separated by commas.
func parseSKUs(s string) []SKU {
	var out []SKU
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		title := strings.TrimSpace(parts[0])
		id := strings.TrimSpace(parts[1])
		if title == "" || id == "" {
			continue
		}
		out = append(out, SKU{Title: title, SkuID: id})
	}
	return out
}
