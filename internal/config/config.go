package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuskey/housing-service/internal/constants"
	"github.com/campuskey/housing-service/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string

	// Database. Empty in demo mode; the service then runs on the
	// in-memory store.
	DBUrl    string
	DemoMode bool

	// Twilio / SendGrid for applicant notifications
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromPhone  string
	SendGridAPIKey   string
	SendGridFromEmail string
	SendGridSandbox  bool

	// Auth
	RSAPublicKey *rsa.PublicKey

	SeedDemoData     bool
	CORSHighSecurity bool
}

const AppName = "housing-service"

func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}

	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Warn("APP_URL is empty, defaulting to http://localhost:3000")
		appUrl = "http://localhost:3000"
	}

	demoMode := os.Getenv("DEMO_MODE") == "true"
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" && !demoMode {
		utils.Logger.Fatal("DB_URL env var is missing (set DEMO_MODE=true to run without a database)")
	}

	pubB64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if pubB64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 env var is missing")
	}
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	if block, _ := pem.Decode(pubPEM); block == nil {
		utils.Logger.Fatal("Failed to decode PEM block for public key")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	twilioFrom := os.Getenv("TWILIO_FROM_PHONE")
	if twilioFrom == "" {
		utils.Logger.Warnf("TWILIO_FROM_PHONE is empty, defaulting to %s", constants.DefaultFromPhone)
		twilioFrom = constants.DefaultFromPhone
	}
	sgFrom := os.Getenv("SENDGRID_FROM_EMAIL")
	if sgFrom == "" {
		utils.Logger.Warnf("SENDGRID_FROM_EMAIL is empty, defaulting to %s", constants.DefaultFromEmail)
		sgFrom = constants.DefaultFromEmail
	}

	return &Config{
		OrganizationName:  constants.OrganizationName,
		AppName:           AppName,
		AppPort:           appPort,
		AppUrl:            appUrl,
		DBUrl:             dbURL,
		DemoMode:          demoMode,
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromPhone:   twilioFrom,
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: sgFrom,
		SendGridSandbox:   os.Getenv("SENDGRID_SANDBOX_MODE") == "true",
		RSAPublicKey:      pubKey,
		SeedDemoData:      os.Getenv("SEED_DEMO_DATA") == "true",
		CORSHighSecurity:  os.Getenv("CORS_HIGH_SECURITY") == "true",
	}
}
