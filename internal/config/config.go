package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/study-planner-api/internal/constants"
)

// Supported DB_DRIVER values
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Supported AUTH_MODE values
const (
	AuthModeJWT         = "jwt"
	AuthModeInsecureDev = "insecure-dev"
)

type Config struct {
	Port            string
	GinMode         string
	Environment     string
	DBDriver        string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	SQLitePath      string
	MongoURI        string
	MongoDatabase   string
	AuthMode        string
	JWTSecret       string
	JWTIssuer       string
	CORSOrigin      string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// values that were set but could not be parsed; reported by Validate
	parseErrs []error
}

// Load reads the configuration from the environment. Values in a .env file
// in the working directory are used for keys not already set.
func Load() *Config {
	_ = godotenv.Load()

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverMongo))
	cfg := &Config{
		Port:            getEnv("PORT", "5000"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		Environment:     getEnv("APP_ENV", "development"),
		DBDriver:        driver,
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", defaultDBPort(driver)),
		DBUser:          getEnv("DB_USER", "planner"),
		DBPassword:      getEnv("DB_PASSWORD", "planner"),
		DBName:          getEnv("DB_NAME", "study_planner"),
		SQLitePath:      getEnv("SQLITE_PATH", "study_planner.db"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "study_planner"),
		AuthMode:        strings.ToLower(getEnv("AUTH_MODE", AuthModeJWT)),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", ""),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
	}

	var err error
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", constants.DefaultShutdownTimeout); err != nil {
		cfg.parseErrs = append(cfg.parseErrs, err)
	}
	return cfg
}

// Validate reports configuration the server cannot start with
func (c *Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)

	switch c.DBDriver {
	case DriverMongo, DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}

	switch c.AuthMode {
	case AuthModeJWT:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when AUTH_MODE=jwt"))
		}
	case AuthModeInsecureDev:
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode))
	}

	if len(c.parseErrs) == 0 && c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func defaultDBPort(driver string) string {
	switch driver {
	case DriverPostgres:
		return "5432"
	default:
		return "3306"
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
