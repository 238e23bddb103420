package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	mebibyte = 1024 * 1024

	StorageProviderS3    = "s3"
	StorageProviderMinio = "minio"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config is the full runtime configuration of the API.
type Config struct {
	Server     ServerConfig     `json:"server"`
	Mongo      MongoConfig      `json:"mongo"`
	JWT        JWTConfig        `json:"jwt"`
	Storage    StorageConfig    `json:"storage"`
	Upload     UploadConfig     `json:"upload"`
	Cache      CacheConfig      `json:"cache"`
	Realtime   RealtimeConfig   `json:"realtime"`
	Events     EventsConfig     `json:"events"`
	Push       PushConfig       `json:"push"`
	RateLimits RateLimitsConfig `json:"rateLimits"`
	Log        LogConfig        `json:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	BaseRoute      string        `json:"baseRoute"`
	AllowedOrigins string        `json:"allowedOrigins"`
	BodyLimit      int           `json:"bodyLimit"`
	ReadTimeout    time.Duration `json:"readTimeout"`
	WriteTimeout   time.Duration `json:"writeTimeout"`
	Debug          bool          `json:"debug"`
}

// MongoConfig holds the document database connection settings.
type MongoConfig struct {
	URI                    string        `json:"uri"`
	Database               string        `json:"database"`
	MaxPoolSize            uint64        `json:"maxPoolSize"`
	MinPoolSize            uint64        `json:"minPoolSize"`
	ConnectTimeout         time.Duration `json:"connectTimeout"`
	ServerSelectionTimeout time.Duration `json:"serverSelectionTimeout"`
}

// JWTConfig holds JWT-related configuration. Tokens are issued elsewhere; only the
// public key is needed to verify them.
type JWTConfig struct {
	PublicKey string `json:"publicKey"`
}

// StorageConfig configures the object storage gateway.
type StorageConfig struct {
	Enabled      bool   `json:"enabled"`
	Provider     string `json:"provider"`
	Endpoint     string `json:"endpoint"`
	AccessKey    string `json:"accessKey"`
	SecretKey    string `json:"secretKey"`
	Region       string `json:"region"`
	Bucket       string `json:"bucket"`
	PublicURL    string `json:"publicUrl"`
	UseSSL       bool   `json:"useSSL"`
	UsePathStyle bool   `json:"usePathStyle"`
	EnsureBucket bool   `json:"ensureBucket"`
}

// UploadConfig holds the media upload limits.
type UploadConfig struct {
	PresignTTL              time.Duration `json:"presignTTL"`
	MaxPostSize             int64         `json:"maxPostSize"`
	MaxReelSize             int64         `json:"maxReelSize"`
	MaxLongVideoSize        int64         `json:"maxLongVideoSize"`
	MaxStorySize            int64         `json:"maxStorySize"`
	MaxReelDurationSec      float64       `json:"maxReelDurationSec"`
	MaxLongVideoDurationSec float64       `json:"maxLongVideoDurationSec"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	Backend         string        `json:"backend"`
	TTL             time.Duration `json:"ttl"`
	Prefix          string        `json:"prefix"`
	MaxMemory       int64         `json:"maxMemory"`
	CleanupInterval time.Duration `json:"cleanupInterval"`
	Redis           RedisConfig   `json:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address      string `json:"address"`
	Password     string `json:"password"`
	DB           int    `json:"db"`
	PoolSize     int    `json:"poolSize"`
	MinIdleConns int    `json:"minIdleConns"`
}

// RealtimeConfig configures socket keepalive and the optional cross-instance relay.
type RealtimeConfig struct {
	PingInterval  time.Duration `json:"pingInterval"`
	SendBuffer    int           `json:"sendBuffer"`
	RelayEnabled  bool          `json:"relayEnabled"`
	RelayAddress  string        `json:"relayAddress"`
	RelayPassword string        `json:"relayPassword"`
	RelayDB       int           `json:"relayDB"`
	RelayChannel  string        `json:"relayChannel"`
}

// EventsConfig configures the Kafka domain event publisher.
type EventsConfig struct {
	Enabled      bool          `json:"enabled"`
	Brokers      []string      `json:"brokers"`
	Topic        string        `json:"topic"`
	WriteTimeout time.Duration `json:"writeTimeout"`
}

// PushConfig configures Web Push delivery for offline users.
type PushConfig struct {
	Enabled         bool   `json:"enabled"`
	VAPIDPublicKey  string `json:"vapidPublicKey"`
	VAPIDPrivateKey string `json:"vapidPrivateKey"`
	Subscriber      string `json:"subscriber"`
	TTL             int    `json:"ttl"`
}

// RateLimitConfig holds rate limiting configuration for a specific endpoint
type RateLimitConfig struct {
	Enabled  bool          `json:"enabled"`
	Max      int           `json:"max"`
	Duration time.Duration `json:"duration"`
}

// RateLimitsConfig holds rate limiting configuration for all endpoints
type RateLimitsConfig struct {
	Upload  RateLimitConfig `json:"upload"`
	Message RateLimitConfig `json:"message"`
}

// LogConfig selects the log sink.
type LogConfig struct {
	Format string `json:"format"`
}

// LoadFromEnv loads configuration from the environment.
// It follows a clear precedence:
// 1. Explicit Environment Variables (e.g., set in the shell or by CI)
// 2. Values from the .env file (if it exists)
// 3. Hardcoded defaults (if applicable)
func LoadFromEnv() (*Config, error) {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	var loadErr error
	for _, envPath := range envPaths {
		loadErr = godotenv.Load(envPath)
		if loadErr == nil {
			break
		}
	}

	if loadErr != nil {
		fmt.Println("INFO: .env file not found, using environment variables and defaults.")
	}

	config := build(os.Getenv)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadFromMap loads configuration from an in-memory map.
// This is the primary helper for testing configuration logic in isolation
// without manipulating global environment variables.
func LoadFromMap(envMap map[string]string) (*Config, error) {
	config := build(func(key string) string { return envMap[key] })
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func build(lookup func(string) string) *Config {
	src := source(lookup)

	storageEndpoint := src.get("STORAGE_ENDPOINT", "localhost:9000")
	storageBucket := src.get("MINIO_MEDIA_BUCKET", "friendflix-media")
	useSSL := src.getBool("STORAGE_USE_SSL", false)

	return &Config{
		Server: ServerConfig{
			Host:           src.get("HOST", "0.0.0.0"),
			Port:           src.getInt("SERVER_PORT", 5000),
			BaseRoute:      src.get("BASE_ROUTE", "/api"),
			AllowedOrigins: src.get("CORS_ORIGINS", "http://localhost:3000"),
			BodyLimit:      src.getInt("BODY_LIMIT", 60*mebibyte),
			ReadTimeout:    src.getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   src.getDuration("WRITE_TIMEOUT", 30*time.Second),
			Debug:          src.getBool("DEBUG", false),
		},
		Mongo: MongoConfig{
			URI:                    src.get("MONGODB_URI", "mongodb://localhost:27017"),
			Database:               src.get("MONGODB_DATABASE", "friendflix"),
			MaxPoolSize:            uint64(src.getInt("MONGODB_MAX_POOL_SIZE", 100)),
			MinPoolSize:            uint64(src.getInt("MONGODB_MIN_POOL_SIZE", 5)),
			ConnectTimeout:         src.getDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
			ServerSelectionTimeout: src.getDuration("MONGODB_SERVER_SELECTION_TIMEOUT", 5*time.Second),
		},
		JWT: JWTConfig{
			PublicKey: src.get("JWT_PUBLIC_KEY", ""),
		},
		Storage: StorageConfig{
			Enabled:      src.getBool("STORAGE_ENABLED", true),
			Provider:     src.get("STORAGE_PROVIDER", StorageProviderMinio),
			Endpoint:     storageEndpoint,
			AccessKey:    src.get("STORAGE_ACCESS_KEY", ""),
			SecretKey:    src.get("STORAGE_SECRET_KEY", ""),
			Region:       src.get("STORAGE_REGION", "us-east-1"),
			Bucket:       storageBucket,
			PublicURL:    src.get("MINIO_PUBLIC_URL", defaultPublicURL(storageEndpoint, useSSL)),
			UseSSL:       useSSL,
			UsePathStyle: src.getBool("STORAGE_USE_PATH_STYLE", true),
			EnsureBucket: src.getBool("STORAGE_ENSURE_BUCKET", true),
		},
		Upload: UploadConfig{
			PresignTTL:              src.getDuration("UPLOAD_PRESIGN_TTL", 24*time.Hour),
			MaxPostSize:             src.getInt64("UPLOAD_MAX_POST_SIZE", 50*mebibyte),
			MaxReelSize:             src.getInt64("UPLOAD_MAX_REEL_SIZE", 100*mebibyte),
			MaxLongVideoSize:        src.getInt64("UPLOAD_MAX_LONG_VIDEO_SIZE", 500*mebibyte),
			MaxStorySize:            src.getInt64("UPLOAD_MAX_STORY_SIZE", 50*mebibyte),
			MaxReelDurationSec:      src.getFloat("UPLOAD_MAX_REEL_DURATION", 60),
			MaxLongVideoDurationSec: src.getFloat("UPLOAD_MAX_LONG_VIDEO_DURATION", 900),
		},
		Cache: CacheConfig{
			Enabled:         src.getBool("CACHE_ENABLED", true),
			Backend:         src.get("CACHE_BACKEND", CacheBackendMemory),
			TTL:             src.getDuration("CACHE_TTL", 30*time.Second),
			Prefix:          src.get("CACHE_PREFIX", "friendflix:"),
			MaxMemory:       src.getInt64("CACHE_MAX_MEMORY", 64*mebibyte),
			CleanupInterval: src.getDuration("CACHE_CLEANUP_INTERVAL", 5*time.Minute),
			Redis: RedisConfig{
				Address:      src.get("REDIS_ADDRESS", "localhost:6379"),
				Password:     src.get("REDIS_PASSWORD", ""),
				DB:           src.getInt("REDIS_DB", 0),
				PoolSize:     src.getInt("REDIS_POOL_SIZE", 10),
				MinIdleConns: src.getInt("REDIS_MIN_IDLE_CONNS", 2),
			},
		},
		Realtime: RealtimeConfig{
			PingInterval:  src.getDuration("REALTIME_PING_INTERVAL", 30*time.Second),
			SendBuffer:    src.getInt("REALTIME_SEND_BUFFER", 64),
			RelayEnabled:  src.getBool("REALTIME_RELAY_ENABLED", false),
			RelayAddress:  src.get("REALTIME_REDIS_ADDRESS", "localhost:6379"),
			RelayPassword: src.get("REALTIME_REDIS_PASSWORD", ""),
			RelayDB:       src.getInt("REALTIME_REDIS_DB", 0),
			RelayChannel:  src.get("REALTIME_RELAY_CHANNEL", "friendflix:realtime"),
		},
		Events: EventsConfig{
			Enabled:      src.getBool("EVENTS_ENABLED", false),
			Brokers:      src.getSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:        src.get("KAFKA_TOPIC", "friendflix.events"),
			WriteTimeout: src.getDuration("KAFKA_WRITE_TIMEOUT", 5*time.Second),
		},
		Push: PushConfig{
			Enabled:         src.getBool("PUSH_ENABLED", false),
			VAPIDPublicKey:  src.get("VAPID_PUBLIC_KEY", ""),
			VAPIDPrivateKey: src.get("VAPID_PRIVATE_KEY", ""),
			Subscriber:      src.get("VAPID_SUBSCRIBER", "admin@friendflix.local"),
			TTL:             src.getInt("PUSH_TTL", 30),
		},
		RateLimits: RateLimitsConfig{
			Upload: RateLimitConfig{
				Enabled:  src.getBool("RATE_LIMIT_UPLOAD_ENABLED", true),
				Max:      src.getInt("RATE_LIMIT_UPLOAD_MAX", 300),
				Duration: src.getDuration("RATE_LIMIT_UPLOAD_DURATION", 1*time.Minute),
			},
			Message: RateLimitConfig{
				Enabled:  src.getBool("RATE_LIMIT_MESSAGE_ENABLED", true),
				Max:      src.getInt("RATE_LIMIT_MESSAGE_MAX", 60),
				Duration: src.getDuration("RATE_LIMIT_MESSAGE_DURATION", 1*time.Minute),
			},
		},
		Log: LogConfig{
			Format: src.get("LOG_FORMAT", "console"),
		},
	}
}

// Validate validates the configuration for required fields
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.JWT.PublicKey) == "" {
		errors = append(errors, "JWT_PUBLIC_KEY is required")
	}

	if strings.TrimSpace(c.Mongo.Database) == "" {
		errors = append(errors, "MONGODB_DATABASE is required")
	}

	if c.Storage.Enabled {
		validProviders := []string{StorageProviderS3, StorageProviderMinio}
		if !contains(validProviders, c.Storage.Provider) {
			errors = append(errors, fmt.Sprintf("STORAGE_PROVIDER must be one of: %s", strings.Join(validProviders, ", ")))
		}
		if strings.TrimSpace(c.Storage.Bucket) == "" {
			errors = append(errors, "MINIO_MEDIA_BUCKET is required when storage is enabled")
		}
	}

	validBackends := []string{CacheBackendMemory, CacheBackendRedis}
	if c.Cache.Enabled && !contains(validBackends, c.Cache.Backend) {
		errors = append(errors, fmt.Sprintf("CACHE_BACKEND must be one of: %s", strings.Join(validBackends, ", ")))
	}

	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		errors = append(errors, "KAFKA_BROKERS is required when events are enabled")
	}

	if c.Push.Enabled && (c.Push.VAPIDPublicKey == "" || c.Push.VAPIDPrivateKey == "") {
		errors = append(errors, "VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY are required when push is enabled")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Address returns the host:port the server listens on.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func defaultPublicURL(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return strings.TrimRight(endpoint, "/")
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// source reads typed values, falling back to defaults on empty or malformed input.
type source func(string) string

func (s source) get(key, defaultValue string) string {
	if value := s(key); value != "" {
		return value
	}
	return defaultValue
}

func (s source) getInt(key string, defaultValue int) int {
	if value := s(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (s source) getInt64(key string, defaultValue int64) int64 {
	if value := s(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (s source) getFloat(key string, defaultValue float64) float64 {
	if value := s(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func (s source) getBool(key string, defaultValue bool) bool {
	if value := s(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func (s source) getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := s(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func (s source) getSlice(key string, defaultValue []string) []string {
	value := s(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
