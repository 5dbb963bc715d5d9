package config

import (
	"os"
	"time"
)

var JWTSecret []byte
var JWTExpiration time.Duration

// CodeSecret signs confirmation codes; CodeTTL bounds the lifetime of the
// redemption marker kept for a redeemed code.
var CodeSecret []byte
var CodeTTL time.Duration

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-secret-key-change-this-in-production"
	}
	JWTSecret = []byte(secret)
	JWTExpiration = 24 * time.Hour

	codeSecret := os.Getenv("CONFIRMATION_CODE_SECRET")
	if codeSecret == "" {
		codeSecret = secret
	}
	CodeSecret = []byte(codeSecret)
	CodeTTL = 24 * time.Hour
}
