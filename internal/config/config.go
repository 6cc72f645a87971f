// Package config loads service configuration from command line flags and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultPort         = 8080
	DefaultHost         = "0.0.0.0"
	DefaultLogLevel     = "info"
	DefaultTemplatePath = "templates/public-offer-form.pdf"
)

// Config holds all configuration for the public-offer intake service.
type Config struct {
	// HTTP server
	Host string
	Port int

	// Postgres connection string
	DatabaseDSN string

	// Offer form template
	TemplatePath string

	// Admin authentication
	JWTSecret string

	// Notification recipients, comma separated
	AdminEmails       string
	ExtraAdminEmails  string
	AdminDashboardURL string

	// Applicant support contacts shown in confirmation emails
	SupportEmail string
	SupportPhone string

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// Cloudinary
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	// CORS allow-list, comma separated origins
	CORSOrigins string

	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults. Secrets have
// no defaults and must come from flags or the environment.
func DefaultConfig() *Config {
	return &Config{
		Host:             DefaultHost,
		Port:             DefaultPort,
		TemplatePath:     DefaultTemplatePath,
		CloudinaryFolder: "public_offer",
		LogLevel:         DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.TemplatePath != "" {
		if expandedPath, err := filepath.Abs(cfg.TemplatePath); err == nil {
			cfg.TemplatePath = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("OFFERINTAKE")
	viper.AutomaticEnv()

	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("database_dsn", cfg.DatabaseDSN)
	viper.SetDefault("template", cfg.TemplatePath)
	viper.SetDefault("jwt_secret", cfg.JWTSecret)
	viper.SetDefault("admin_emails", cfg.AdminEmails)
	viper.SetDefault("extra_admin_emails", cfg.ExtraAdminEmails)
	viper.SetDefault("admin_dashboard_url", cfg.AdminDashboardURL)
	viper.SetDefault("support_email", cfg.SupportEmail)
	viper.SetDefault("support_phone", cfg.SupportPhone)
	viper.SetDefault("mailgun_domain", cfg.MailgunDomain)
	viper.SetDefault("mailgun_api_key", cfg.MailgunAPIKey)
	viper.SetDefault("mailgun_sender", cfg.MailgunSender)
	viper.SetDefault("cloudinary_cloud_name", cfg.CloudinaryCloudName)
	viper.SetDefault("cloudinary_api_key", cfg.CloudinaryAPIKey)
	viper.SetDefault("cloudinary_api_secret", cfg.CloudinaryAPISecret)
	viper.SetDefault("cloudinary_folder", cfg.CloudinaryFolder)
	viper.SetDefault("cors_origins", cfg.CORSOrigins)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("host", cfg.Host, "HTTP listen address")
	pflag.Int("port", cfg.Port, "HTTP listen port")
	pflag.String("database-dsn", cfg.DatabaseDSN, "Postgres connection string")
	pflag.String("template", cfg.TemplatePath, "Path to the public offer form PDF template")
	pflag.String("jwt-secret", cfg.JWTSecret, "Secret for signing admin session tokens")
	pflag.String("admin-emails", cfg.AdminEmails, "Notification recipients, comma separated")
	pflag.String("cors-origins", cfg.CORSOrigins, "Allowed CORS origins, comma separated")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("database_dsn", pflag.Lookup("database-dsn"))
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
	_ = viper.BindPFlag("jwt_secret", pflag.Lookup("jwt-secret"))
	_ = viper.BindPFlag("admin_emails", pflag.Lookup("admin-emails"))
	_ = viper.BindPFlag("cors_origins", pflag.Lookup("cors-origins"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DatabaseDSN = viper.GetString("database_dsn")
	cfg.TemplatePath = viper.GetString("template")
	cfg.JWTSecret = viper.GetString("jwt_secret")
	cfg.AdminEmails = viper.GetString("admin_emails")
	cfg.ExtraAdminEmails = viper.GetString("extra_admin_emails")
	cfg.AdminDashboardURL = viper.GetString("admin_dashboard_url")
	cfg.SupportEmail = viper.GetString("support_email")
	cfg.SupportPhone = viper.GetString("support_phone")
	cfg.MailgunDomain = viper.GetString("mailgun_domain")
	cfg.MailgunAPIKey = viper.GetString("mailgun_api_key")
	cfg.MailgunSender = viper.GetString("mailgun_sender")
	cfg.CloudinaryCloudName = viper.GetString("cloudinary_cloud_name")
	cfg.CloudinaryAPIKey = viper.GetString("cloudinary_api_key")
	cfg.CloudinaryAPISecret = viper.GetString("cloudinary_api_secret")
	cfg.CloudinaryFolder = viper.GetString("cloudinary_folder")
	cfg.CORSOrigins = viper.GetString("cors_origins")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if c.DatabaseDSN == "" {
		return errors.New("database DSN cannot be empty")
	}

	if c.JWTSecret == "" {
		return errors.New("JWT secret cannot be empty")
	}

	if c.TemplatePath == "" {
		return errors.New("template path cannot be empty")
	}
	if _, err := os.Stat(c.TemplatePath); err != nil {
		return fmt.Errorf("cannot access template %s: %w", c.TemplatePath, err)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return errors.New("log level must be one of: debug, info, warn, error")
	}

	return nil
}

// Address returns the HTTP listen address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MailerConfigured reports whether Mailgun credentials are present.
func (c *Config) MailerConfigured() bool {
	return c.MailgunDomain != "" && c.MailgunAPIKey != "" && c.MailgunSender != ""
}

// UploaderConfigured reports whether Cloudinary credentials are present.
func (c *Config) UploaderConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// CORSOriginList splits the configured origins into a slice, trimming
// whitespace and dropping empty entries.
func (c *Config) CORSOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if origin := strings.TrimSpace(o); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
