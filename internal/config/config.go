package config

import "os"

// Config holds every environment-provided setting the API needs.
// We load it ONCE in main() and pass it down explicitly, so nothing
// in the app reads os.Getenv behind our back.
type Config struct {
	// Database
	DSN string

	// HTTP
	Port string

	// Auth
	JWTSecret string

	// Razorpay credentials + the currency we settle in (e.g. "INR")
	RazorpayKeyID     string
	RazorpayKeySecret string
	Currency          string
}

// Load reads the configuration from environment variables.
// Sensible local-dev fallbacks are provided for everything except the
// Razorpay credentials, which have no safe default.
func Load() Config {
	return Config{
		DSN:               getEnv("DB_DSN", "root:password@tcp(127.0.0.1:3306)/imagify?parseTime=true"),
		Port:              getEnv("PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-only-secret-change-me"),
		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		Currency:          getEnv("CURRENCY", "INR"),
	}
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
