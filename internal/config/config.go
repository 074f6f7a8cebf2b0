// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables,
// an optional .env file and an optional JSON config file.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address"`
	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn"`
	// LogLevel is a zap level name.
	LogLevel string `json:"log_level"`
	// Config is the path to the Config file.
	Config string `json:"-"`

	Admin   AdminOptions   `json:"admin"`
	Session SessionOptions `json:"session"`
	Site    SiteOptions    `json:"site"`
	Storage StorageOptions `json:"storage"`
	SMTP    SMTPOptions    `json:"smtp"`

	// AllowedOrigins lists front-end origins allowed by CORS.
	AllowedOrigins []string `json:"allowed_origins"`
	// ContactRateLimit is the number of public message submissions allowed
	// per client IP per minute. Zero disables the limit.
	ContactRateLimit int `json:"contact_rate_limit"`
	// TrustProxy takes the client IP from forwarding headers. Enable only
	// behind a proxy that overwrites them.
	TrustProxy bool `json:"trust_proxy"`
	// MaxUploadBytes bounds multipart bodies on upload endpoints.
	MaxUploadBytes int64 `json:"max_upload_bytes"`
	// AssetReaperInterval is how often queued image deletions are retried.
	// Zero disables the retries.
	AssetReaperInterval time.Duration `json:"asset_reaper_interval"`

	TLSCertFile string `json:"tls_cert_file"`
	TLSKeyFile  string `json:"tls_key_file"`
}

// UnmarshalJSON decodes the config file, accepting durations as strings.
func (o *Options) UnmarshalJSON(b []byte) error {
	type plain Options
	aux := struct {
		*plain
		AssetReaperInterval *Duration `json:"asset_reaper_interval"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.AssetReaperInterval != nil {
		o.AssetReaperInterval = time.Duration(*aux.AssetReaperInterval)
	}
	return nil
}

// AdminOptions controls the lazily bootstrapped administrator.
type AdminOptions struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// SessionOptions controls session token signing.
type SessionOptions struct {
	Secret string        `json:"secret"`
	TTL    time.Duration `json:"ttl"`
}

// UnmarshalJSON decodes session options, accepting the TTL as a string.
func (s *SessionOptions) UnmarshalJSON(b []byte) error {
	type plain SessionOptions
	aux := struct {
		*plain
		TTL *Duration `json:"ttl"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.TTL != nil {
		s.TTL = time.Duration(*aux.TTL)
	}
	return nil
}

// Duration is a time.Duration in the config file. It is written either as
// a time.ParseDuration string such as "720h" or as integer nanoseconds.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid duration %s", b)
	}
	*d = Duration(n)
	return nil
}

// SiteOptions is used inside outgoing emails.
type SiteOptions struct {
	URL        string `json:"url"`
	OwnerName  string `json:"owner_name"`
	OwnerTitle string `json:"owner_title"`
}

// StorageOptions configures the S3-compatible image host.
type StorageOptions struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	UseSSL    bool   `json:"use_ssl"`
	// PublicURL is the base of the URLs handed to the public site.
	PublicURL string `json:"public_url"`
}

// SMTPOptions configures the mail transport.
type SMTPOptions struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	FromName string `json:"from_name"`
}

// Defaults returns the options used when nothing else is configured.
func Defaults() *Options {
	return &Options{
		Port:     "localhost:8080",
		LogLevel: "info",
		Config:   "config.json",
		Admin:    AdminOptions{Email: "admin@barista.com"},
		Session:  SessionOptions{TTL: 30 * 24 * time.Hour},
		Site: SiteOptions{
			URL:        "https://yourwebsite.com",
			OwnerName:  "Barista Portfolio",
			OwnerTitle: "Professional Barista & Coffee Consultant",
		},
		Storage:             StorageOptions{Bucket: "portfolio", UseSSL: true},
		SMTP:                SMTPOptions{Host: "smtp.gmail.com", Port: 587},
		ContactRateLimit:    5,
		MaxUploadBytes:      10 << 20,
		AssetReaperInterval: time.Hour,
	}
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values, and exits the process on invalid input.
func Parse() *Options {
	options, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return options
}

// Load builds Options from defaults, the JSON config file, a .env file,
// the environment and finally the explicitly given flags.
func Load(args []string) (*Options, error) {
	options := Defaults()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	var (
		addr     = fs.String("a", options.Port, "run on ip:port server")
		dsn      = fs.String("d", "", "db address")
		level    = fs.String("l", options.LogLevel, "log level")
		cfgPath  = fs.String("config", options.Config, "path to config file")
		cfgShort = fs.String("c", options.Config, "path to config file (shorthand)")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	options.Config = *cfgPath
	if set["c"] {
		options.Config = *cfgShort
	}
	if configPath := os.Getenv("CONFIG"); configPath != "" && !set["c"] && !set["config"] {
		options.Config = configPath
	}

	if err := loadFile(options); err != nil {
		return nil, err
	}

	// A missing .env is normal in production.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(options); err != nil {
		return nil, err
	}

	if set["a"] {
		options.Port = *addr
	}
	if set["d"] {
		options.DatabaseDSN = *dsn
	}
	if set["l"] {
		options.LogLevel = *level
	}

	return options, options.Validate()
}

// Validate reports settings the server cannot start without.
func (o *Options) Validate() error {
	if o.Session.Secret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if o.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if o.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if o.AssetReaperInterval < 0 {
		return errors.New("ASSET_REAPER_INTERVAL must not be negative")
	}
	if o.ContactRateLimit < 0 {
		return errors.New("CONTACT_RATE_LIMIT must not be negative")
	}
	if (o.TLSCertFile == "") != (o.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

func loadFile(options *Options) error {
	if options.Config == "" {
		return nil
	}
	if _, err := os.Stat(options.Config); err != nil {
		return nil
	}
	data, err := os.ReadFile(options.Config)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, options); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

func applyEnv(o *Options) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	str("SERVER_ADDRESS", &o.Port)
	str("DATABASE_DSN", &o.DatabaseDSN)
	str("LOG_LEVEL", &o.LogLevel)
	str("ADMIN_EMAIL", &o.Admin.Email)
	str("ADMIN_PASSWORD_HASH", &o.Admin.PasswordHash)
	str("SESSION_SECRET", &o.Session.Secret)
	str("SITE_URL", &o.Site.URL)
	str("SITE_OWNER_NAME", &o.Site.OwnerName)
	str("SITE_OWNER_TITLE", &o.Site.OwnerTitle)
	str("STORAGE_ENDPOINT", &o.Storage.Endpoint)
	str("STORAGE_ACCESS_KEY", &o.Storage.AccessKey)
	str("STORAGE_SECRET_KEY", &o.Storage.SecretKey)
	str("STORAGE_BUCKET", &o.Storage.Bucket)
	str("STORAGE_REGION", &o.Storage.Region)
	str("STORAGE_PUBLIC_URL", &o.Storage.PublicURL)
	str("SMTP_HOST", &o.SMTP.Host)
	str("SMTP_USER", &o.SMTP.User)
	str("SMTP_PASSWORD", &o.SMTP.Password)
	str("SMTP_FROM_NAME", &o.SMTP.FromName)
	str("TLS_CERT_FILE", &o.TLSCertFile)
	str("TLS_KEY_FILE", &o.TLSKeyFile)

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		o.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				o.AllowedOrigins = append(o.AllowedOrigins, origin)
			}
		}
	}

	var err error
	if v := os.Getenv("TRUST_PROXY"); v != "" {
		if o.TrustProxy, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
	}
	if v := os.Getenv("STORAGE_USE_SSL"); v != "" {
		if o.Storage.UseSSL, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("STORAGE_USE_SSL: %w", err)
		}
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if o.SMTP.Port, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
	}
	if v := os.Getenv("CONTACT_RATE_LIMIT"); v != "" {
		if o.ContactRateLimit, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("CONTACT_RATE_LIMIT: %w", err)
		}
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if o.MaxUploadBytes, err = strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if o.Session.TTL, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
	}
	if v := os.Getenv("ASSET_REAPER_INTERVAL"); v != "" {
		if o.AssetReaperInterval, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("ASSET_REAPER_INTERVAL: %w", err)
		}
	}
	return nil
}
