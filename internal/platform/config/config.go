package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// RateLimit uses the limiter format, e.g. "100-M" for 100 requests per minute.
	RateLimit          string
	CORSAllowedOrigins []string

	// Approval thresholds. Amounts up to Level1Max need a LEVEL_1 sign-off,
	// up to Level2Max LEVEL_2, anything above LEVEL_3.
	ApprovalLevel1Max decimal.Decimal
	ApprovalLevel2Max decimal.Decimal
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
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "erp-ledger-app")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("APPROVAL_LEVEL1_MAX", "50000")
	viper.SetDefault("APPROVAL_LEVEL2_MAX", "500000")

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
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")

	cfg.ApprovalLevel1Max = parseAmount("APPROVAL_LEVEL1_MAX", "50000")
	cfg.ApprovalLevel2Max = parseAmount("APPROVAL_LEVEL2_MAX", "500000")
	if cfg.ApprovalLevel2Max.LessThanOrEqual(cfg.ApprovalLevel1Max) {
		log.Printf("Warning: APPROVAL_LEVEL2_MAX (%s) must exceed APPROVAL_LEVEL1_MAX (%s). Using defaults.\n",
			cfg.ApprovalLevel2Max, cfg.ApprovalLevel1Max)
		cfg.ApprovalLevel1Max = decimal.NewFromInt(50000)
		cfg.ApprovalLevel2Max = decimal.NewFromInt(500000)
	}

	return cfg, nil
}

func parseAmount(key, fallback string) decimal.Decimal {
	raw := viper.GetString(key)
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		amount, _ = decimal.NewFromString(fallback)
	}
	return amount
}

// ApprovalPolicy builds the threshold policy the approval engine runs on.
func (c *Config) ApprovalPolicy() domain.ApprovalPolicy {
	policy := domain.DefaultApprovalPolicy()
	policy.Level1Max = c.ApprovalLevel1Max
	policy.Level2Max = c.ApprovalLevel2Max
	return policy
}
