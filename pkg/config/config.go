package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CompanyConfig identifies the reporting entity on statutory statements.
type CompanyConfig struct {
	Code    string
	Name    string
	TaxCode string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	BcryptCost        int

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
	RateLimit string

	Company CompanyConfig
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "8h")
	viper.SetDefault("JWT_ISSUER", "vnacct-backend")
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("COMPANY_CODE", "C001")
	viper.SetDefault("COMPANY_NAME", "Công ty TNHH Demo")
	viper.SetDefault("COMPANY_TAX_CODE", "0101234567")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 8 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.BcryptCost = viper.GetInt("BCRYPT_COST")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.Company = CompanyConfig{
		Code:    viper.GetString("COMPANY_CODE"),
		Name:    viper.GetString("COMPANY_NAME"),
		TaxCode: viper.GetString("COMPANY_TAX_CODE"),
	}

	return cfg, nil
}
