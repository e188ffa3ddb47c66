package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPriceTable is the nightly rate per location shipped with the service.
var DefaultPriceTable = map[string]float64{
	"Patia":   1200,
	"Niladri": 1500,
}

const (
	DefaultRate    = 1200
	SurchargeRate  = 0.12
	defaultTZ      = "Asia/Kolkata"
	defaultMongoDB = "hoteldb"
)

// Config is built once in main and handed to constructors.
type Config struct {
	Port   string
	Env    string
	Secret []byte

	TokenTTL       time.Duration
	AllowedOrigins []string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string

	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	MailFrom    string
	NotifyEmail string

	Location      *time.Location
	PriceTable    map[string]float64
	DefaultRate   float64
	SurchargeRate float64

	RateLimitRPS   float64
	RateLimitBurst int

	AdminUsername string
	AdminPassword string

	// InvoiceFont is an optional UTF-8 TTF file for invoices.
	InvoiceFont string
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:          get("PORT", ":8080"),
		Env:           get("APP_ENV", "production"),
		MongoURI:      get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       get("MONGO_DB", defaultMongoDB),
		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
		SMTPHost:      get("SMTP_HOST", ""),
		SMTPUser:      get("SMTP_USER", ""),
		SMTPPass:      get("SMTP_PASS", ""),
		MailFrom:      get("MAIL_FROM", "reservations@localhost"),
		NotifyEmail:   get("NOTIFY_EMAIL", ""),
		AdminUsername: get("ADMIN_USERNAME", ""),
		AdminPassword: get("ADMIN_PASSWORD", ""),
		InvoiceFont:   get("INVOICE_FONT", ""),
		SurchargeRate: SurchargeRate,
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}

	secret := get("JWT_SECRET", "")
	if secret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET is required unless APP_ENV=development")
		}
		secret = "dev-only-secret"
	}
	cfg.Secret = []byte(secret)

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", "12h")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if cfg.SMTPPort, err = strconv.Atoi(get("SMTP_PORT", "587")); err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}
	if cfg.DefaultRate, err = strconv.ParseFloat(get("DEFAULT_RATE", strconv.Itoa(DefaultRate)), 64); err != nil {
		return nil, fmt.Errorf("DEFAULT_RATE: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(get("RATE_LIMIT_RPS", "5"), 64); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(get("RATE_LIMIT_BURST", "10")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}

	cfg.Location, err = time.LoadLocation(get("HOTEL_TZ", defaultTZ))
	if err != nil {
		cfg.Location = time.Local
	}

	cfg.PriceTable, err = ParsePriceTable(getenv("PRICE_TABLE"))
	if err != nil {
		return nil, err
	}

	for _, o := range strings.Split(get("ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	return cfg, nil
}

// ParsePriceTable merges "Name:rate,Name:rate" entries over DefaultPriceTable.
func ParsePriceTable(raw string) (map[string]float64, error) {
	table := make(map[string]float64, len(DefaultPriceTable))
	for k, v := range DefaultPriceTable {
		table[k] = v
	}
	if strings.TrimSpace(raw) == "" {
		return table, nil
	}
	for _, entry := range strings.Split(raw, ",") {
		name, rate, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("PRICE_TABLE: malformed entry %q", entry)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("PRICE_TABLE: bad rate for %q", name)
		}
		table[name] = v
	}
	return table, nil
}
