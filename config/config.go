package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD" default:""`
	DBName      string `envconfig:"DB_NAME" default:"autoparts"`

	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	AdminAPIKey     string `envconfig:"ADMIN_API_KEY" default:""`
	SuperAdminEmail string `envconfig:"SUPER_ADMIN_EMAIL" default:""`

	FirebaseProjectID       string `envconfig:"FIREBASE_PROJECT_ID" default:""`
	FirebaseCredentialsJSON string `envconfig:"FIREBASE_CREDENTIALS_JSON" default:""`

	PayPalBaseURL      string        `envconfig:"PAYPAL_API_BASE" default:"https://api-m.sandbox.paypal.com"`
	PayPalClientID     string        `envconfig:"PAYPAL_CLIENT_ID" default:""`
	PayPalClientSecret string        `envconfig:"PAYPAL_CLIENT_SECRET" default:""`
	PayPalTimeout      time.Duration `envconfig:"PAYPAL_TIMEOUT" default:"15s"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaTopic   string `envconfig:"KAFKA_ORDER_TOPIC" default:"order-events"`

	WatchTimeout time.Duration `envconfig:"WATCH_TIMEOUT" default:"30m"`
	CORSOrigins  string        `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load reads a local .env (if any) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a DSN built from the DB_* fields.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func (c *Config) Brokers() []string {
	if strings.TrimSpace(c.KafkaBrokers) == "" {
		return nil
	}
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
