package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Persist PersistConfig
	Auth    AuthConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

// StorageConfig selects the persistence backend. Driver is one of "memory",
// "sqlite" or "mongo".
type StorageConfig struct {
	Driver          string
	SQLitePath      string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

type PersistConfig struct {
	MaxAttempts int
	Backoff     time.Duration
}

type AuthConfig struct {
	Username string
	Password string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("STORAGE_DRIVER", "sqlite")
	viper.SetDefault("SQLITE_PATH", "data/estoque.db")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "estoque")
	viper.SetDefault("MONGO_COLLECTION", "inventory")
	viper.SetDefault("PERSIST_MAX_ATTEMPTS", 3)
	viper.SetDefault("PERSIST_BACKOFF", "100ms")
	viper.SetDefault("AUTH_USERNAME", "admin")
	viper.SetDefault("AUTH_PASSWORD", "password")
	viper.SetDefault("LOG_LEVEL", "info")

	backoff, err := time.ParseDuration(viper.GetString("PERSIST_BACKOFF"))
	if err != nil {
		return nil, fmt.Errorf("parsing PERSIST_BACKOFF: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Storage: StorageConfig{
			Driver:          viper.GetString("STORAGE_DRIVER"),
			SQLitePath:      viper.GetString("SQLITE_PATH"),
			MongoURI:        viper.GetString("MONGO_URI"),
			MongoDatabase:   viper.GetString("MONGO_DB"),
			MongoCollection: viper.GetString("MONGO_COLLECTION"),
		},
		Persist: PersistConfig{
			MaxAttempts: viper.GetInt("PERSIST_MAX_ATTEMPTS"),
			Backoff:     backoff,
		},
		Auth: AuthConfig{
			Username: viper.GetString("AUTH_USERNAME"),
			Password: viper.GetString("AUTH_PASSWORD"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	switch cfg.Storage.Driver {
	case "memory", "sqlite", "mongo":
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}
