package config

import "os"

// Config holds runtime settings for the API process.
type Config struct {
	Port      string // HTTP listen port
	RedisURL  string // Redis URL (redis://host:port/db)
	SMTPAddr  string // SMTP host:port for confirmation mail; empty = log-only sender
	MailFrom  string // From address on confirmation mail
	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string
}

// Load populates Config from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port:      firstNonEmpty(os.Getenv("PORT"), "8080"),
		RedisURL:  firstNonEmpty(os.Getenv("REDIS_URL"), "redis://localhost:6379/0"),
		SMTPAddr:  os.Getenv("SMTP_ADDR"),
		MailFrom:  firstNonEmpty(os.Getenv("MAIL_FROM"), "no-reply@reviewbase.local"),
		DBHost:    firstNonEmpty(os.Getenv("DB_HOST"), "localhost"),
		DBPort:    firstNonEmpty(os.Getenv("DB_PORT"), "5432"),
		DBUser:    firstNonEmpty(os.Getenv("DB_USER"), "postgres"),
		DBPass:    firstNonEmpty(os.Getenv("DB_PASSWORD"), "postgres"),
		DBName:    firstNonEmpty(os.Getenv("DB_NAME"), "reviewbase"),
		DBSSLMode: firstNonEmpty(os.Getenv("DB_SSLMODE"), "disable"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
