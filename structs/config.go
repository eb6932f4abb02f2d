package structs

import "time"

// Config is read from the environment by config.GetConfig.
type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Auth      *AuthConfig
	Cache     *CacheConfig
	Storage   *StorageConfig
	Email     *EmailConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName        string // Storefront
	Environment    string // development, production
	Port           string // :8082
	CookieDomain   string // .example.com, empty for host-only cookies
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodyBytes   int64 // whole request, uploads included
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // preflight cache, seconds
}

type DatabaseConfig struct {
	Driver       string // pgdriver or pgx
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SlowQuery    time.Duration
}

type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	SessionTTL      time.Duration // payment drafts and admin edit state
	SessionKey      string        // 32 bytes seals session payloads, empty stores them as plain JSON
}

type StorageConfig struct {
	Root          string // directory of the public disk
	PublicURL     string // prefix the public files are served under
	MaxUploadSize int64  // per file, in bytes
}

type EmailConfig struct {
	ApiKey string
	From   string
}

type RateLimitConfig struct {
	Enabled       bool
	GeneralLimit  int
	GeneralWindow time.Duration
	AuthLimit     int
	AuthWindow    time.Duration
	AdminLimit    int
	AdminWindow   time.Duration
}
