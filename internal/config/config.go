package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port            int              `json:"port"`
	JWTSecret       string           `json:"jwt_secret"`
	SessionTTLHours int              `json:"session_ttl_hours"`
	CORSOrigins     []string         `json:"cors_origins"`
	LogConfig       logger.LogConfig `json:"log_config"`
	Database        DatabaseConfig   `json:"database"`
	Mail            MailConfig       `json:"mail"`
	OAuth           OAuthConfig      `json:"oauth"`
	AssetStore      AssetStoreConfig `json:"asset_store"`
	HealthCheckSpec string           `json:"health_check_spec"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type MailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type OAuthProviderConfig struct {
	Enable       bool     `json:"enable"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RedirectURL  string   `json:"redirect_url"`
	Scopes       []string `json:"scopes"`
}

type OAuthConfig struct {
	Google OAuthProviderConfig `json:"google"`
	Github OAuthProviderConfig `json:"github"`
}

type AssetStoreConfig struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Database.DSN == "" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
		return nil, fmt.Errorf("database dsn or host/db_name are required")
	}
	if cfg.SessionTTLHours == 0 {
		cfg.SessionTTLHours = 168
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AssetStore.Type == "" {
		cfg.AssetStore.Type = "local"
		if cfg.AssetStore.Data == nil {
			cfg.AssetStore.Data = map[string]interface{}{"dir": "./assets"}
		}
	}
	if cfg.HealthCheckSpec == "" {
		cfg.HealthCheckSpec = "*/5 * * * *"
	}
	return &cfg, nil
}
