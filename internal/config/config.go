package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	MongoDB      MongoConfig
	Firebase     FirebaseConfig
	Notification NotificationConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	Environment  string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	DatabaseName string
	MaxOpenConns int
	MaxIdleConns int
}

type MongoConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

type FirebaseConfig struct {
	ProjectID           string
	CredentialsFilePath string
	Enabled             bool
}

type NotificationConfig struct {
	PushTimeout     int // seconds, per-token send
	DefaultPageSize int
	MaxPageSize     int
	// TestEndpoint guards POST /notifications/test; it should be off
	// outside development builds.
	TestEndpoint bool
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("NOTIF_SERVICE_PORT", "7004"),
			ReadTimeout:  getEnvIntOrDefault("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvIntOrDefault("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", "localhost"),
			Port:         getEnvOrDefault("DB_PORT", "3306"),
			Username:     getEnvOrDefault("DB_USER", "mealmate"),
			Password:     getEnvOrDefault("DB_PASSWORD", "mealmate123"),
			DatabaseName: getEnvOrDefault("DB_NAME", "mealmate"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USER", "admin"),
			Password: getEnvOrDefault("MONGO_PASSWORD", "admin123"),
			Database: getEnvOrDefault("MONGO_DB", "mealmate"),
		},
		Firebase: FirebaseConfig{
			ProjectID:           getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
			CredentialsFilePath: getEnvOrDefault("FIREBASE_CREDENTIALS_PATH", ""),
			Enabled:             getEnvOrDefault("FIREBASE_ENABLED", "false") == "true",
		},
		Notification: NotificationConfig{
			PushTimeout:     getEnvIntOrDefault("PUSH_TIMEOUT_SECONDS", 10),
			DefaultPageSize: getEnvIntOrDefault("NOTIF_DEFAULT_PAGE_SIZE", 20),
			MaxPageSize:     getEnvIntOrDefault("NOTIF_MAX_PAGE_SIZE", 100),
			TestEndpoint:    getEnvOrDefault("NOTIF_TEST_ENDPOINT", "true") == "true",
		},
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Database.Username,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DatabaseName,
	)
}

func (c *Config) MongoURI() string {
	if c.MongoDB.Username == "" {
		return fmt.Sprintf("mongodb://%s:%s", c.MongoDB.Host, c.MongoDB.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s",
		c.MongoDB.Username,
		c.MongoDB.Password,
		c.MongoDB.Host,
		c.MongoDB.Port,
	)
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
