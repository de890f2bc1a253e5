package config

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Snapshot backends accepted by STORAGE.TYPE.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageS3       = "s3"
)

// APIServerConfig holds settings for the HTTP API server.
type APIServerConfig struct {
	Host         string        `mapstructure:"HOST"`
	Port         string        `mapstructure:"PORT"`
	ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
	CORS         CORSConfig    `mapstructure:"CORS"`
}

// CORSConfig holds configuration for CORS.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"ALLOWED_ORIGINS"`
	AllowedMethods   []string `mapstructure:"ALLOWED_METHODS"`
	AllowedHeaders   []string `mapstructure:"ALLOWED_HEADERS"`
	ExposedHeaders   []string `mapstructure:"EXPOSED_HEADERS"`
	AllowCredentials bool     `mapstructure:"ALLOW_CREDENTIALS"`
	MaxAge           int      `mapstructure:"MAX_AGE"`
}

// RedisConfig holds configuration for Redis. When disabled, stream tokens are never revoked early.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"ENABLED"`
	Addr     string `mapstructure:"ADDR"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
}

// Config holds all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AppName    string          `mapstructure:"APP_NAME"`
	AppVersion string          `mapstructure:"APP_VERSION"`
	LogLevel   string          `mapstructure:"LOG_LEVEL"`
	LogFormat  string          `mapstructure:"LOG_FORMAT"`
	Server     ServerConfig    `mapstructure:"SERVER"` // chat server
	APIServer  APIServerConfig `mapstructure:"API_SERVER"`
	Kafka      KafkaConfig     `mapstructure:"KAFKA"`
	Database   DatabaseConfig  `mapstructure:"DATABASE"`
	Storage    StorageConfig   `mapstructure:"STORAGE"`
	Auth       AuthConfig      `mapstructure:"AUTH"`
	WebSocket  WebSocketConfig `mapstructure:"WEBSOCKET"`
	Redis      RedisConfig     `mapstructure:"REDIS"`
	Autosave   AutosaveConfig  `mapstructure:"AUTOSAVE"`
	Admin      AdminConfig     `mapstructure:"ADMIN"`
}

// ServerConfig holds configuration for the chat (WebSocket) server.
type ServerConfig struct {
	Host           string        `mapstructure:"HOST"`
	Port           string        `mapstructure:"PORT"`
	WebSocketPath  string        `mapstructure:"WEBSOCKET_PATH"`
	ReadTimeout    time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"WRITE_TIMEOUT"`
	MaxHeaderBytes int           `mapstructure:"MAX_HEADER_BYTES"`
}

// KafkaConfig holds configuration for Kafka. Events are only published when Enabled is set.
type KafkaConfig struct {
	Enabled       bool     `mapstructure:"ENABLED"`
	Brokers       []string `mapstructure:"BROKERS"`
	ClientID      string   `mapstructure:"CLIENT_ID"`
	EventsTopic   string   `mapstructure:"EVENTS_TOPIC"`
	ConsumerGroup string   `mapstructure:"CONSUMER_GROUP"`
	Protocol      string   `mapstructure:"PROTOCOL"`
}

// DatabaseConfig holds configuration for the database used by the postgres snapshot backend.
type DatabaseConfig struct {
	Type     string `mapstructure:"TYPE"`
	Host     string `mapstructure:"HOST"`
	Port     int    `mapstructure:"PORT"`
	User     string `mapstructure:"USER"`
	Password string `mapstructure:"PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"SSL_MODE"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// StorageConfig selects where system snapshots are persisted.
type StorageConfig struct {
	Type         string   `mapstructure:"TYPE"` // "file", "postgres", "s3"
	LocalPath    string   `mapstructure:"LOCAL_PATH"`
	FileName     string   `mapstructure:"FILE_NAME"`
	SnapshotName string   `mapstructure:"SNAPSHOT_NAME"` // row name / object key for postgres and s3
	S3           S3Config `mapstructure:"S3"`
}

// S3Config holds configuration for S3 compatible storage such as MinIO.
type S3Config struct {
	BucketName      string `mapstructure:"BUCKET_NAME"`
	Region          string `mapstructure:"REGION"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY"`
	Endpoint        string `mapstructure:"ENDPOINT"`
	UseSSL          bool   `mapstructure:"USE_SSL"`
}

// AuthConfig holds password hashing and stream token settings.
type AuthConfig struct {
	JWTSecretKey string        `mapstructure:"JWT_SECRET_KEY"`
	JWTExpiry    time.Duration `mapstructure:"JWT_EXPIRY"`
	BcryptCost   int           `mapstructure:"BCRYPT_COST"`
}

// WebSocketConfig holds configuration for WebSocket connections.
type WebSocketConfig struct {
	WriteWaitSeconds    int `mapstructure:"WRITE_WAIT_SECONDS"`
	PongWaitSeconds     int `mapstructure:"PONG_WAIT_SECONDS"`
	PingPeriodSeconds   int `mapstructure:"PING_PERIOD_SECONDS"`
	MaxMessageSizeBytes int `mapstructure:"MAX_MESSAGE_SIZE_BYTES"`
}

// AutosaveConfig drives the periodic snapshot job. Schedule is a six-field cron spec.
type AutosaveConfig struct {
	Enabled     bool   `mapstructure:"ENABLED"`
	Schedule    string `mapstructure:"SCHEDULE"`
	LoadOnStart bool   `mapstructure:"LOAD_ON_START"`
}

// AdminConfig guards the system lifecycle endpoints. An empty token disables them.
type AdminConfig struct {
	Token string `mapstructure:"TOKEN"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()

	v.SetDefault("APP_NAME", "Jackut")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// Chat server
	v.SetDefault("SERVER.HOST", "0.0.0.0")
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.WEBSOCKET_PATH", "/ws")
	v.SetDefault("SERVER.READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER.WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER.MAX_HEADER_BYTES", 1<<20) // 1 MB

	// API server
	v.SetDefault("API_SERVER.HOST", "0.0.0.0")
	v.SetDefault("API_SERVER.PORT", "8081")
	v.SetDefault("API_SERVER.READ_TIMEOUT", 15*time.Second)
	v.SetDefault("API_SERVER.WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("API_SERVER.CORS.ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("API_SERVER.CORS.ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("API_SERVER.CORS.ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"})
	v.SetDefault("API_SERVER.CORS.EXPOSED_HEADERS", []string{"Content-Length"})
	v.SetDefault("API_SERVER.CORS.ALLOW_CREDENTIALS", true)
	v.SetDefault("API_SERVER.CORS.MAX_AGE", 300)

	v.SetDefault("KAFKA.ENABLED", false)
	v.SetDefault("KAFKA.BROKERS", []string{"localhost:9092"})
	v.SetDefault("KAFKA.CLIENT_ID", "jackut")
	v.SetDefault("KAFKA.EVENTS_TOPIC", "jackut-events")
	v.SetDefault("KAFKA.CONSUMER_GROUP", "jackut-chat-server")
	v.SetDefault("KAFKA.PROTOCOL", "plaintext")

	v.SetDefault("DATABASE.TYPE", "postgres")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "password")
	v.SetDefault("DATABASE.DB_NAME", "jackut")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.LOG_LEVEL", "warn")

	v.SetDefault("STORAGE.TYPE", StorageFile)
	v.SetDefault("STORAGE.LOCAL_PATH", "./data")
	v.SetDefault("STORAGE.FILE_NAME", "jackut.json")
	v.SetDefault("STORAGE.SNAPSHOT_NAME", "jackut")
	v.SetDefault("STORAGE.S3.BUCKET_NAME", "jackut-snapshots")
	v.SetDefault("STORAGE.S3.REGION", "us-east-1")
	v.SetDefault("STORAGE.S3.ACCESS_KEY_ID", "")
	v.SetDefault("STORAGE.S3.SECRET_ACCESS_KEY", "")
	v.SetDefault("STORAGE.S3.ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE.S3.USE_SSL", false)

	v.SetDefault("AUTH.JWT_SECRET_KEY", "a_very_secret_key_that_should_be_changed")
	v.SetDefault("AUTH.JWT_EXPIRY", 15*time.Minute)
	v.SetDefault("AUTH.BCRYPT_COST", 10)

	v.SetDefault("REDIS.ENABLED", false)
	v.SetDefault("REDIS.ADDR", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)

	v.SetDefault("WEBSOCKET.WRITE_WAIT_SECONDS", 10)
	v.SetDefault("WEBSOCKET.PONG_WAIT_SECONDS", 60)
	v.SetDefault("WEBSOCKET.PING_PERIOD_SECONDS", 54) // (60 * 9) / 10
	v.SetDefault("WEBSOCKET.MAX_MESSAGE_SIZE_BYTES", 512)

	v.SetDefault("AUTOSAVE.ENABLED", true)
	v.SetDefault("AUTOSAVE.SCHEDULE", "0 */5 * * * *")
	v.SetDefault("AUTOSAVE.LOAD_ON_START", true)

	v.SetDefault("ADMIN.TOKEN", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// SERVER_PORT overrides SERVER.PORT, AUTH_BCRYPT_COST overrides AUTH.BCRYPT_COST.
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		// Defaults cover every key.
		err = nil
	}

	err = v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	return
}

// SnapshotPath returns the full path of the file snapshot.
func (c StorageConfig) SnapshotPath() string {
	return filepath.Join(c.LocalPath, c.FileName)
}
