package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database        DatabaseConfig
	JWT             JWTConfig
	App             AppConfig
	OAuth2Google    OAuth2Config
	OAuth2Microsoft OAuth2Config
	Attendance      AttendanceConfig
	Notification    NotificationConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	RunMigrations bool
	MigrationsDir string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
	CookieSecure      bool
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
	MaxBodyBytes   int64
}

type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// Tenant is only used by Microsoft (common, organizations, or a tenant id).
	Tenant string
}

// Enabled reports whether the provider has enough configuration to be mounted.
func (o OAuth2Config) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.RedirectURL != ""
}

// AttendanceConfig holds the daily marking policy.
type AttendanceConfig struct {
	CutoffHour   int
	Timezone     string
	LockInterval time.Duration
}

// Location resolves the configured timezone. Validate guarantees it loads.
func (a AttendanceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

type NotificationConfig struct {
	Retention     time.Duration
	PurgeInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          dbPort,
		User:          getEnv("DB_USER", "postgres"),
		Password:      getEnv("DB_PASSWORD", ""),
		Name:          getEnv("DB_NAME", "workday"),
		SSLMode:       getEnv("DB_SSL_MODE", "disable"),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_BODY_BYTES: %w", err)
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:5173")
	origins := getEnvSlice("CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{frontendURL}
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    strings.TrimRight(frontendURL, "/"),
		AllowedOrigins: origins,
		MaxBodyBytes:   maxBody,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "15m"),
		CookieSecure:      getEnvBool("JWT_COOKIE_SECURE", false),
	}

	// OAuth2 providers
	config.OAuth2Google = OAuth2Config{
		ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		Scopes:       getEnvSliceOr("GOOGLE_SCOPES", []string{"openid", "profile", "email"}),
	}
	config.OAuth2Microsoft = OAuth2Config{
		ClientID:     getEnv("MICROSOFT_CLIENT_ID", ""),
		ClientSecret: getEnv("MICROSOFT_CLIENT_SECRET", ""),
		RedirectURL:  getEnv("MICROSOFT_REDIRECT_URL", ""),
		Scopes:       getEnvSliceOr("MICROSOFT_SCOPES", []string{"openid", "profile", "email", "User.Read"}),
		Tenant:       getEnv("MICROSOFT_TENANT", "common"),
	}

	// Attendance policy
	cutoffHour, err := strconv.Atoi(getEnv("ATTENDANCE_CUTOFF_HOUR", "11"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_CUTOFF_HOUR: %w", err)
	}
	lockInterval, err := time.ParseDuration(getEnv("ATTENDANCE_LOCK_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LOCK_INTERVAL: %w", err)
	}
	config.Attendance = AttendanceConfig{
		CutoffHour:   cutoffHour,
		Timezone:     getEnv("APP_TIMEZONE", "Local"),
		LockInterval: lockInterval,
	}

	// Notification housekeeping
	retention, err := time.ParseDuration(getEnv("NOTIFICATION_RETENTION", "2160h"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_RETENTION: %w", err)
	}
	purgeInterval, err := time.ParseDuration(getEnv("NOTIFICATION_PURGE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_PURGE_INTERVAL: %w", err)
	}
	config.Notification = NotificationConfig{
		Retention:     retention,
		PurgeInterval: purgeInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("JWT_REFRESH_EXPIRATION_TIME is invalid: %w", err)
	}
	if c.OAuth2Google.ClientID == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if c.OAuth2Google.ClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
	}
	if c.OAuth2Google.RedirectURL == "" {
		return fmt.Errorf("GOOGLE_REDIRECT_URL is required")
	}
	if c.Attendance.CutoffHour < 0 || c.Attendance.CutoffHour > 23 {
		return fmt.Errorf("ATTENDANCE_CUTOFF_HOUR must be between 0 and 23")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}
	if c.Attendance.LockInterval <= 0 {
		return fmt.Errorf("ATTENDANCE_LOCK_INTERVAL must be positive")
	}
	if c.Notification.PurgeInterval <= 0 {
		return fmt.Errorf("NOTIFICATION_PURGE_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// IsDevelopment reports whether internal error details may be exposed.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getEnvSliceOr(env string, fallback []string) []string {
	if values := getEnvSlice(env); len(values) > 0 {
		return values
	}
	return fallback
}
