package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Mail transport drivers.
const (
	MailDriverSMTP     = "smtp"
	MailDriverSendGrid = "sendgrid"
	MailDriverConsole  = "console"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Uploads    UploadsConfig
	Mail       MailConfig
	College    CollegeConfig
	Admin      AdminConfig
	Scraper    ScraperConfig
	Exports    ExportsConfig
	Cache      CacheConfig
	Migrations MigrationsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadsConfig points at the on-disk roots for attachments, scraped PDFs and exports.
type UploadsConfig struct {
	NoticeDir  string
	ScrapedDir string
	ExportDir  string
}

// MailConfig selects and configures the outbound mail transport.
type MailConfig struct {
	Driver         string
	Host           string
	Port           int
	User           string
	Password       string
	From           string
	UseSSL         bool
	UseTLS         bool
	Timeout        time.Duration
	SendGridAPIKey string
}

// CollegeConfig carries institution branding used in outbound links.
type CollegeConfig struct {
	Domain string
}

// AdminConfig seeds the single admin account on startup.
type AdminConfig struct {
	LoginID  string
	Password string
}

// ScraperConfig tunes outbound fetching.
type ScraperConfig struct {
	Timeout   time.Duration
	Workers   int
	UserAgent string
	MaxBytes  int64
}

// ExportsConfig controls signed download links for log exports.
type ExportsConfig struct {
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// CacheConfig toggles Redis-backed response caching.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type MigrationsConfig struct {
	Path string
	Auto bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	// SECRET_KEY is honoured as a fallback so existing deployments keep their sessions valid.
	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		secret = v.GetString("SECRET_KEY")
	}
	cfg.JWT = JWTConfig{
		Secret:     secret,
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Uploads = UploadsConfig{
		NoticeDir:  v.GetString("NOTICE_UPLOAD_DIR"),
		ScrapedDir: v.GetString("SCRAPED_UPLOAD_DIR"),
		ExportDir:  v.GetString("EXPORT_DIR"),
	}

	port := v.GetInt("EMAIL_PORT")
	useSSL := v.GetBool("EMAIL_USE_SSL") || port == 465
	cfg.Mail = MailConfig{
		Driver:         strings.ToLower(v.GetString("MAIL_DRIVER")),
		Host:           v.GetString("EMAIL_HOST"),
		Port:           port,
		User:           v.GetString("EMAIL_USER"),
		Password:       v.GetString("EMAIL_PASSWORD"),
		From:           v.GetString("EMAIL_FROM"),
		UseSSL:         useSSL,
		UseTLS:         v.GetBool("EMAIL_USE_TLS") && !useSSL,
		Timeout:        parseDuration(v.GetString("EMAIL_TIMEOUT"), 20*time.Second),
		SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
	}

	cfg.College = CollegeConfig{Domain: v.GetString("COLLEGE_DOMAIN")}

	cfg.Admin = AdminConfig{
		LoginID:  v.GetString("ADMIN_LOGIN_ID"),
		Password: v.GetString("ADMIN_PASSWORD"),
	}

	cfg.Scraper = ScraperConfig{
		Timeout:   parseDuration(v.GetString("SCRAPER_TIMEOUT"), 15*time.Second),
		Workers:   v.GetInt("SCRAPER_WORKERS"),
		UserAgent: v.GetString("SCRAPER_USER_AGENT"),
		MaxBytes:  v.GetInt64("SCRAPER_MAX_BYTES"),
	}

	cfg.Exports = ExportsConfig{
		SignedURLSecret: v.GetString("EXPORT_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORT_SIGNED_URL_TTL"), 30*time.Minute),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.Migrations = MigrationsConfig{
		Path: v.GetString("MIGRATIONS_PATH"),
		Auto: v.GetBool("AUTO_MIGRATE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus_assistant")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SECRET_KEY", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "campus-assistant-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("NOTICE_UPLOAD_DIR", "./uploads/notices")
	v.SetDefault("SCRAPED_UPLOAD_DIR", "./uploads/scraped")
	v.SetDefault("EXPORT_DIR", "./exports")

	v.SetDefault("MAIL_DRIVER", MailDriverSMTP)
	v.SetDefault("EMAIL_HOST", "")
	v.SetDefault("EMAIL_PORT", 587)
	v.SetDefault("EMAIL_USER", "")
	v.SetDefault("EMAIL_PASSWORD", "")
	v.SetDefault("EMAIL_FROM", "")
	v.SetDefault("EMAIL_USE_SSL", false)
	v.SetDefault("EMAIL_USE_TLS", true)
	v.SetDefault("EMAIL_TIMEOUT", "20s")
	v.SetDefault("SENDGRID_API_KEY", "")

	v.SetDefault("COLLEGE_DOMAIN", "")
	v.SetDefault("ADMIN_LOGIN_ID", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("SCRAPER_TIMEOUT", "15s")
	v.SetDefault("SCRAPER_WORKERS", 1)
	v.SetDefault("SCRAPER_USER_AGENT", "campus-assistant-scraper/1.0")
	v.SetDefault("SCRAPER_MAX_BYTES", 20<<20)

	v.SetDefault("EXPORT_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORT_SIGNED_URL_TTL", "30m")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("MIGRATIONS_PATH", "./migrations")
	v.SetDefault("AUTO_MIGRATE", false)
}

// isMissingFile reports a missing .env, which SetConfigFile surfaces as a path error.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
