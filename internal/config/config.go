package config

import (
	"log"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ServerConfig holds the listen address
type ServerConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

// TLSConfig holds the TLS settings
type TLSConfig struct {
	Enabled    bool   `toml:"enabled"`
	CertFile   string `toml:"cert_file"`
	KeyFile    string `toml:"key_file"`
	MinVersion string `toml:"min_version"`
}

// StorageConfig holds data paths
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
	DBPath  string `toml:"db_path"`
}

// Config is the server configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	TLS     TLSConfig     `toml:"tls"`
	Storage StorageConfig `toml:"storage"`
}

// LoadConfig reads config.toml (or CONFIG_PATH) and applies environment
// overrides. Missing file falls back to defaults.
func LoadConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8090",
		},
		TLS: TLSConfig{
			MinVersion: "1.2",
		},
		Storage: StorageConfig{
			DataDir: "./data",
			DBPath:  "./data/wallpresentation.db",
		},
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config.toml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			log.Printf("Failed to parse %s, using defaults: %v", path, err)
		} else {
			log.Printf("Loaded configuration from %s", path)
		}
	}

	// Environment overrides
	if host := os.Getenv("HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}

	return cfg
}
