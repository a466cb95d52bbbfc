package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	MongoURI    string   `yaml:"mongoUri"`
	MongoDB     string   `yaml:"mongoDb"`
	UpstreamURL string   `yaml:"upstreamUrl"` // profile + prediction service; empty serves profiles locally
	SchemesURL  string   `yaml:"schemesUrl"`
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"corsOrigins"`

	Identity IdentityConfig `yaml:"identity"`
	SMS      SMSConfig      `yaml:"sms"`
	Log      LogConfig      `yaml:"log"`
}

type IdentityConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	PublicKey string `yaml:"publicKey"` // PEM, RS256
	Issuer    string `yaml:"issuer"`
}

type SMSConfig struct {
	AccountSID  string `yaml:"accountSid"`
	AuthToken   string `yaml:"authToken"`
	From        string `yaml:"from"`
	BaseURL     string `yaml:"baseUrl"`
	DryRun      bool   `yaml:"dryRun"`
	CountryCode string `yaml:"countryCode"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

func defaultConfig() Config {
	return Config{
		MongoURI: "mongodb://localhost:27017",
		MongoDB:  "farmledger",
		Port:     "8080",
		CORSOrigins: []string{
			"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173",
		},
		SMS: SMSConfig{CountryCode: "+91"},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// loadConfig layers defaults, the optional YAML file and the environment, in
// that order. A .env file in the working directory is loaded first.
func loadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.MongoURI = getenv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDB = getenv("MONGO_DB", cfg.MongoDB)
	cfg.UpstreamURL = strings.TrimRight(getenv("UPSTREAM_URL", cfg.UpstreamURL), "/")
	cfg.SchemesURL = strings.TrimRight(getenv("SCHEMES_URL", cfg.SchemesURL), "/")
	cfg.Port = getenv("PORT", cfg.Port)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	cfg.Identity.JWTSecret = getenv("IDENTITY_JWT_SECRET", cfg.Identity.JWTSecret)
	cfg.Identity.PublicKey = getenv("IDENTITY_PUBLIC_KEY", cfg.Identity.PublicKey)
	cfg.Identity.Issuer = getenv("IDENTITY_ISSUER", cfg.Identity.Issuer)

	cfg.SMS.AccountSID = getenv("TWILIO_ACCOUNT_SID", cfg.SMS.AccountSID)
	cfg.SMS.AuthToken = getenv("TWILIO_AUTH_TOKEN", cfg.SMS.AuthToken)
	cfg.SMS.From = getenv("TWILIO_PHONE_NUMBER", cfg.SMS.From)
	cfg.SMS.BaseURL = getenv("TWILIO_BASE_URL", cfg.SMS.BaseURL)
	cfg.SMS.CountryCode = getenv("SMS_COUNTRY_CODE", cfg.SMS.CountryCode)
	if v := os.Getenv("SMS_DRY_RUN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("SMS_DRY_RUN: %w", err)
		}
		cfg.SMS.DryRun = b
	}

	cfg.Log.Level = getenv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenv("LOG_FORMAT", cfg.Log.Format)
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
