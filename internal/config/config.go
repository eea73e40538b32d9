package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultCORSOrigins = "http://localhost:3001,https://tastetribefoodie.vercel.app,http://0.0.0.0:5000"

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	DatabaseURL             string
	DBMaxConns              int32
	DBMinConns              int32
	JWTSecret               string
	JWTAccessTTL            time.Duration
	RevocationSweepInterval time.Duration
	CORSOrigins             []string
	RateLimitRPM            int
	AuthRateLimitRPM        int
	ImageHost               ImageHostConfig
	AvatarMaxSize           int64
	AvatarMaxDimension      int
	AvatarMaxPixels         int64
	TrustedProxies          []netip.Prefix
	KafkaBrokers            []string
	KafkaTopic              string
	AdminUsername           string
	AdminEmail              string
	AdminPassword           string
	LogLevel                string
	LogFormat               string
}

// ImageHostConfig holds the credentials of the hosted image service, parsed from
// CLOUDINARY_URL (cloudinary://<api_key>:<api_secret>@<cloud_name>).
type ImageHostConfig struct {
	// BaseURL replaces the upload API origin; empty means the provider default.
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func (c ImageHostConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// URL renders the credentials back into the cloudinary:// connection string,
// or "" when they are incomplete.
func (c ImageHostConfig) URL() string {
	if !c.Enabled() {
		return ""
	}
	return (&url.URL{Scheme: "cloudinary", User: url.UserPassword(c.APIKey, c.APISecret), Host: c.CloudName}).String()
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	imageHost, err := parseCloudinaryURL(strings.TrimSpace(os.Getenv("CLOUDINARY_URL")))
	if err != nil {
		return nil, err
	}
	imageHost.BaseURL = strings.TrimSpace(os.Getenv("IMAGE_HOST_BASE_URL"))
	imageHost.Folder = getEnv("IMAGE_HOST_FOLDER", "avatars")

	trustedProxies, err := parseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:              getEnv("PORT", "5000"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:             getEnv("DATABASE_URL", "sqlite:///tastetribe.db"),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 1)),
		JWTSecret:               strings.TrimSpace(os.Getenv("JWT_SECRET_KEY")),
		JWTAccessTTL:            getDuration("JWT_ACCESS_TTL", 24*time.Hour),
		RevocationSweepInterval: getDuration("REVOCATION_SWEEP_INTERVAL", 10*time.Minute),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", defaultCORSOrigins)),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:        getInt("AUTH_RATE_LIMIT_RPM", 10),
		ImageHost:               imageHost,
		AvatarMaxSize:           getInt64("AVATAR_MAX_SIZE", 5<<20),
		AvatarMaxDimension:      getInt("AVATAR_MAX_DIMENSION", 512),
		AvatarMaxPixels:         getInt64("AVATAR_MAX_PIXELS", 40_000_000),
		TrustedProxies:          trustedProxies,
		KafkaBrokers:            splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
		KafkaTopic:              getEnv("KAFKA_TOPIC", "tastetribe.activity"),
		AdminUsername:           strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminEmail:              strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:           os.Getenv("ADMIN_PASSWORD"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "pretty"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL cannot be empty")
	}

	if c.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be positive")
	}

	if c.RevocationSweepInterval <= 0 {
		return fmt.Errorf("REVOCATION_SWEEP_INTERVAL must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS are inconsistent")
	}

	if c.AvatarMaxSize <= 0 {
		return fmt.Errorf("AVATAR_MAX_SIZE must be positive")
	}

	if c.AvatarMaxDimension <= 0 {
		return fmt.Errorf("AVATAR_MAX_DIMENSION must be positive")
	}

	if c.AvatarMaxPixels <= 0 {
		return fmt.Errorf("AVATAR_MAX_PIXELS must be positive")
	}

	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	return nil
}

func parseCloudinaryURL(raw string) (ImageHostConfig, error) {
	if raw == "" {
		return ImageHostConfig{}, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "cloudinary" || parsed.User == nil || parsed.Host == "" {
		return ImageHostConfig{}, fmt.Errorf("CLOUDINARY_URL must look like cloudinary://<api_key>:<api_secret>@<cloud_name>")
	}

	secret, _ := parsed.User.Password()
	return ImageHostConfig{
		CloudName: parsed.Host,
		APIKey:    parsed.User.Username(),
		APISecret: secret,
	}, nil
}

// parseTrustedProxies reads a CSV of CIDRs or bare addresses.
func parseTrustedProxies(raw string) ([]netip.Prefix, error) {
	entries := splitCSV(raw)
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid CIDR %q", entry)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q", entry)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
