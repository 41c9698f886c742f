package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Identity IdentityConfig
	CORS     CORSConfig
	Log      LogConfig
	Media    MediaConfig
	Chat     ChatConfig
	Fees     FeesConfig
	Loans    LoansConfig
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
	Host     string
	Port     int
	Password string
	DB       int
}

// IdentityConfig configures verification of identity-provider bearer tokens.
type IdentityConfig struct {
	TokenSecret string
	Issuer      string
	Leeway      time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MediaConfig controls study-room media storage.
type MediaConfig struct {
	StorageDir       string
	MaxFileSizeBytes int64
	AllowedExts      []string
	PublicBaseURL    string
}

// ChatConfig tunes the chat relay backed by Redis.
type ChatConfig struct {
	HistoryLimit int
}

// FeesConfig sets the overdue-fee daily rate in cents.
type FeesConfig struct {
	DailyRateCents int64
}

// LoansConfig holds the circulation windows.
type LoansConfig struct {
	ReservationWindow time.Duration
	LoanPeriodDays    int
	RenewalPeriodDays int
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
		if !errors.As(err, &notFound) {
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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Identity = IdentityConfig{
		TokenSecret: v.GetString("IDENTITY_TOKEN_SECRET"),
		Issuer:      v.GetString("IDENTITY_ISSUER"),
		Leeway:      parseDuration(v.GetString("IDENTITY_LEEWAY"), 30*time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxMediaSize := v.GetInt64("MEDIA_MAX_FILE_SIZE")
	if maxMediaSize <= 0 {
		maxMediaSize = 25 * 1024 * 1024
	}
	cfg.Media = MediaConfig{
		StorageDir:       v.GetString("MEDIA_STORAGE_DIR"),
		MaxFileSizeBytes: maxMediaSize,
		AllowedExts:      splitAndTrim(v.GetString("MEDIA_ALLOWED_EXTENSIONS")),
		PublicBaseURL:    strings.TrimRight(v.GetString("MEDIA_PUBLIC_BASE_URL"), "/"),
	}

	cfg.Chat = ChatConfig{
		HistoryLimit: v.GetInt("CHAT_HISTORY_LIMIT"),
	}

	cfg.Fees = FeesConfig{
		DailyRateCents: v.GetInt64("FEE_DAILY_RATE_CENTS"),
	}

	cfg.Loans = LoansConfig{
		ReservationWindow: parseDuration(v.GetString("RESERVATION_WINDOW"), 2*time.Hour),
		LoanPeriodDays:    v.GetInt("LOAN_PERIOD_DAYS"),
		RenewalPeriodDays: v.GetInt("RENEWAL_PERIOD_DAYS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sccs_library")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("IDENTITY_TOKEN_SECRET", "dev_secret")
	v.SetDefault("IDENTITY_ISSUER", "")
	v.SetDefault("IDENTITY_LEEWAY", "30s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MEDIA_STORAGE_DIR", "./uploads/media")
	v.SetDefault("MEDIA_MAX_FILE_SIZE", 25*1024*1024)
	v.SetDefault("MEDIA_ALLOWED_EXTENSIONS", ".pdf,.doc,.docx,.jpg,.png,.mp4,.mov,.txt")
	v.SetDefault("MEDIA_PUBLIC_BASE_URL", "http://localhost:8080")

	v.SetDefault("CHAT_HISTORY_LIMIT", 50)

	v.SetDefault("FEE_DAILY_RATE_CENTS", 500)

	v.SetDefault("RESERVATION_WINDOW", "2h")
	v.SetDefault("LOAN_PERIOD_DAYS", 5)
	v.SetDefault("RENEWAL_PERIOD_DAYS", 14)
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
