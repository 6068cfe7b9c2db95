package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Data source selectors
const (
	DataSourceMock     = "mock"
	DataSourceDatabase = "database"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	DataSource string
	SeedDemo   bool
	Database   DatabaseConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Treasury   TreasuryConfig
	Cron       CronConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// TreasuryConfig holds dues settings
type TreasuryConfig struct {
	MonthlyFee float64
}

// CronConfig holds background job schedules
type CronConfig struct {
	DuesReminder string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	dataSource := strings.TrimSpace(getEnv("DATA_SOURCE", DataSourceMock))
	if dataSource != DataSourceMock && dataSource != DataSourceDatabase {
		return nil, fmt.Errorf("invalid DATA_SOURCE: '%s' (must be 'mock' or 'database')", dataSource)
	}

	database := loadDatabaseConfig(appMode)
	if database.Driver != "mysql" && database.Driver != "sqlite" {
		return nil, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'sqlite')", database.Driver)
	}

	seed, _ := strconv.ParseBool(getEnv("SEED_DEMO_DATA", strconv.FormatBool(appMode == "dev")))

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		DataSource: dataSource,
		SeedDemo:   seed,
		Database:   database,
		JWT:        loadJWTConfig(appMode),
		Cookie:     loadCookieConfig(appMode),
		Treasury:   loadTreasuryConfig(),
		Cron: CronConfig{
			DuesReminder: getEnv("DUES_REMINDER_CRON", "30 8 1 * *"),
		},
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DATA: %s]", appMode, dataSource)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", "3306"),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "payaso_portal"),
		SQLitePath: getEnv("SQLITE_PATH", "payaso.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, err := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))
	if err != nil || accessMins <= 0 {
		accessMins = 60
	}

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadTreasuryConfig() TreasuryConfig {
	fee, err := strconv.ParseFloat(getEnv("MONTHLY_FEE", "5000"), 64)
	if err != nil || fee < 0 {
		fee = 5000
	}
	return TreasuryConfig{MonthlyFee: fee}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// UsesDatabase returns true when the hosted store backs the services
func (c *Config) UsesDatabase() bool {
	return c.DataSource == DataSourceDatabase
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "https://portal.payasos.org"
	}
	return origins
}
