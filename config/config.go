package config

import (
	"errors"
	"fmt"
	"storefront_server/structs"
	"sync"
	"time"
)

const defaultAccessSecret = "default_access_secret"

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

// GetConfig reads the environment once. Later calls return the same value.
func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server:    loadServer(),
			Cors:      loadCors(),
			Database:  loadDatabase(),
			Auth:      loadAuth(),
			Cache:     loadCache(),
			Storage:   loadStorage(),
			Email:     loadEmail(),
			RateLimit: loadRateLimit(),
		}
	})
	return configInstance
}

func loadServer() *structs.ServerConfig {
	return &structs.ServerConfig{
		AppName:        getEnvAsString("APP_NAME", "Storefront_no_env"),
		Environment:    getEnvAsString("APP_ENV", "development"),
		Port:           getEnvAsString("APP_PORT", ":8082"),
		CookieDomain:   getEnvAsString("APP_COOKIE_DOMAIN", ""),
		ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
		WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
		IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
		MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
		MaxBodyBytes:   getEnvAsBytes("SERVER_MAX_BODY_BYTES", 60<<20),
	}
}

func loadCors() *structs.CorsConfig {
	return &structs.CorsConfig{
		AllowOrigins:     getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		AllowMethods:     getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		AllowHeaders:     getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-CSRF-Token"}),
		AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
		ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
		MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
	}
}

func loadDatabase() *structs.DatabaseConfig {
	return &structs.DatabaseConfig{
		Driver:       getEnvAsString("DB_DRIVER", "pgdriver"),
		Host:         getEnvAsString("DB_HOST", "localhost"),
		Port:         getEnvAsInt("DB_PORT", 5432),
		User:         getEnvAsString("DB_USER", "postgres"),
		Password:     getEnvAsString("DB_PASSWORD", "password"),
		Name:         getEnvAsString("DB_NAME", "storefront_db"),
		SSLMode:      getEnvAsString("DB_SSL_MODE", "disable"),
		MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
		MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
		MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
		MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
		ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
		WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
		SlowQuery:    getEnvAsTimeDuration("DB_SLOW_QUERY", time.Second),
	}
}

func loadAuth() *structs.AuthConfig {
	return &structs.AuthConfig{
		AccessTokenSecret: getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", defaultAccessSecret),
		AccessTokenExpiry: getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 12*time.Hour),
	}
}

func loadCache() *structs.CacheConfig {
	return &structs.CacheConfig{
		Address:         getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
		Username:        getEnvAsString("REDIS_USERNAME", ""),
		Password:        getEnvAsString("REDIS_PASSWORD", ""),
		DB:              getEnvAsInt("REDIS_DB", 0),
		PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
		MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
		PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
		IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
		MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
		MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
		SessionTTL:      getEnvAsTimeDuration("SESSION_TTL", 2*time.Hour),
		SessionKey:      getEnvAsString("SESSION_KEY", ""),
	}
}

func loadStorage() *structs.StorageConfig {
	return &structs.StorageConfig{
		Root:          getEnvAsString("STORAGE_ROOT", "./storage/public"),
		PublicURL:     getEnvAsString("STORAGE_PUBLIC_URL", "/storage"),
		MaxUploadSize: getEnvAsBytes("STORAGE_MAX_UPLOAD_SIZE", 5<<20),
	}
}

func loadEmail() *structs.EmailConfig {
	return &structs.EmailConfig{
		ApiKey: getEnvAsString("RESEND_API_KEY", ""),
		From:   getEnvAsString("EMAIL_FROM", "Storefront <noreply@example.com>"),
	}
}

func loadRateLimit() *structs.RateLimitConfig {
	return &structs.RateLimitConfig{
		Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
		GeneralLimit:  getEnvAsInt("RATE_LIMIT_GENERAL", 120),
		GeneralWindow: getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
		AuthLimit:     getEnvAsInt("RATE_LIMIT_AUTH", 10),
		AuthWindow:    getEnvAsTimeDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
		AdminLimit:    getEnvAsInt("RATE_LIMIT_ADMIN", 300),
		AdminWindow:   getEnvAsTimeDuration("RATE_LIMIT_ADMIN_WINDOW", time.Minute),
	}
}

// Check rejects settings that are only acceptable during development.
func Check(cfg *structs.Config) error {
	var errs []error
	if key := cfg.Cache.SessionKey; key != "" && len(key) != 32 {
		errs = append(errs, fmt.Errorf("SESSION_KEY must be 32 bytes, got %d", len(key)))
	}
	if cfg.Database.Driver != "pgdriver" && cfg.Database.Driver != "pgx" {
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not pgdriver or pgx", cfg.Database.Driver))
	}
	if cfg.Server.Environment == "production" {
		if cfg.Auth.AccessTokenSecret == defaultAccessSecret || len(cfg.Auth.AccessTokenSecret) < 32 {
			errs = append(errs, errors.New("AUTH_ACCESS_TOKEN_SECRET must be set to at least 32 bytes in production"))
		}
		if cfg.Email.ApiKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required in production"))
		}
	}
	return errors.Join(errs...)
}

func GetLogLevel() string {
	if IsProduction() {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
