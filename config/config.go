// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the API server and the storefront.
type Config struct {
	Env            string
	Port           string
	StorefrontPort string

	MongoURI string
	MongoDB  string

	JWTSecret         string
	AuthProvider      string
	FirebaseProjectID string

	PostmarkToken string
	EmailSender   string

	AIEndpointURL string
	AIAPIKey      string

	AdminEmail        string
	AdminPasswordHash string

	PaymentMaxAmount float64
	PaymentMode      string

	APIBaseURL     string
	SignInURL      string
	RequestTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
// It reports whether a .env file was found so callers can log it.
func Load() (Config, bool, error) {
	loaded := godotenv.Load() == nil
	cfg, err := FromEnv()
	return cfg, loaded, err
}

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:               getenv("APP_ENV", "development"),
		Port:              getenv("PORT", "8000"),
		StorefrontPort:    getenv("STOREFRONT_PORT", "8080"),
		MongoURI:          getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getenv("MONGO_DB", "pharmacy"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AuthProvider:      strings.ToLower(getenv("AUTH_PROVIDER", "jwt")),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		PostmarkToken:     os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:       os.Getenv("EMAIL_SENDER"),
		AIEndpointURL:     os.Getenv("AI_ENDPOINT_URL"),
		AIAPIKey:          os.Getenv("AI_API_KEY"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		PaymentMaxAmount:  getenvFloat("PAYMENT_MAX_AMOUNT", 10000),
		PaymentMode:       strings.ToLower(getenv("PAYMENT_MODE", "remote")),
		APIBaseURL:        strings.TrimRight(getenv("API_BASE_URL", "http://localhost:8000"), "/"),
		SignInURL:         getenv("SIGN_IN_URL", "/login"),
		RequestTimeout:    getenvDuration("REQUEST_TIMEOUT", 10*time.Second),
	}

	switch cfg.AuthProvider {
	case "jwt":
		if cfg.JWTSecret == "" {
			return Config{}, fmt.Errorf("JWT_SECRET must be set when AUTH_PROVIDER=jwt")
		}
	case "firebase":
	default:
		return Config{}, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.AuthProvider)
	}
	if cfg.PaymentMode != "remote" && cfg.PaymentMode != "simulated" {
		return Config{}, fmt.Errorf("unknown PAYMENT_MODE %q", cfg.PaymentMode)
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	return cfg, nil
}

// EmailEnabled reports whether order confirmation emails can be sent.
func (c Config) EmailEnabled() bool {
	return c.PostmarkToken != "" && c.EmailSender != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
