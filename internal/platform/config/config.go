package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CompanyConfig is the issuing company's identity, printed on invoice PDFs and
// reminder emails.
type CompanyConfig struct {
	Name         string
	Address      string
	City         string
	Country      string
	Postcode     string
	Phone        string
	Email        string
	BankHolder   string
	BankAccount  string
	BankSortCode string
}

// SMTPConfig holds the mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// SchedulerInterval is the trigger cadence of the reminder job. The business
	// rules assume once per calendar day; the job is idempotent per day, so a
	// finer interval is safe.
	SchedulerInterval time.Duration

	SMTP    SMTPConfig
	Company CompanyConfig
}

// LoadConfig loads configuration from environment variables and a .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "smart-invoice-backend")
	viper.SetDefault("SCHEDULER_INTERVAL", "1m")
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "billing@smartinvoice.local")
	viper.SetDefault("COMPANY_NAME", "SmartInvoice Ltd")
	viper.SetDefault("COMPANY_ADDRESS", "")
	viper.SetDefault("COMPANY_CITY", "")
	viper.SetDefault("COMPANY_COUNTRY", "")
	viper.SetDefault("COMPANY_POSTCODE", "")
	viper.SetDefault("COMPANY_PHONE", "")
	viper.SetDefault("COMPANY_EMAIL", "")
	viper.SetDefault("COMPANY_BANK_HOLDER", "")
	viper.SetDefault("COMPANY_BANK_ACCOUNT", "")
	viper.SetDefault("COMPANY_BANK_SORT_CODE", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	intervalStr := viper.GetString("SCHEDULER_INTERVAL")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		interval = time.Minute
		log.Printf("Warning: Invalid value for SCHEDULER_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, interval)
	}
	cfg.SchedulerInterval = interval

	cfg.SMTP = SMTPConfig{
		Host:     viper.GetString("SMTP_HOST"),
		Port:     viper.GetInt("SMTP_PORT"),
		Username: viper.GetString("SMTP_USERNAME"),
		Password: viper.GetString("SMTP_PASSWORD"),
		From:     viper.GetString("SMTP_FROM"),
	}
	if cfg.SMTP.Username == "" {
		log.Println("Warning: SMTP_USERNAME not set. Reminder emails will likely fail to authenticate.")
	}

	cfg.Company = CompanyConfig{
		Name:         viper.GetString("COMPANY_NAME"),
		Address:      viper.GetString("COMPANY_ADDRESS"),
		City:         viper.GetString("COMPANY_CITY"),
		Country:      viper.GetString("COMPANY_COUNTRY"),
		Postcode:     viper.GetString("COMPANY_POSTCODE"),
		Phone:        viper.GetString("COMPANY_PHONE"),
		Email:        viper.GetString("COMPANY_EMAIL"),
		BankHolder:   viper.GetString("COMPANY_BANK_HOLDER"),
		BankAccount:  viper.GetString("COMPANY_BANK_ACCOUNT"),
		BankSortCode: viper.GetString("COMPANY_BANK_SORT_CODE"),
	}

	return cfg, nil
}
