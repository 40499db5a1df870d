package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	ServerAddr       string        `env:"RUN_ADDRESS"`
	LogLevel         string        `env:"LOG_LEVEL"`
	LogFormat        string        `env:"LOG_FORMAT"`
	DatabaseURI      string        `env:"DATABASE_URI"`
	JWTSecretKey     string        `env:"JWT_SECRET_KEY"`
	JWTTokenTTL      time.Duration `env:"JWT_TOKEN_TTL"`
	PushGatewayURL   string        `env:"PUSH_GATEWAY_URL"`
	PushPollInterval time.Duration `env:"PUSH_POLL_INTERVAL"`
	AdminUsername    string        `env:"ADMIN_USERNAME"`
	AdminEmail       string        `env:"ADMIN_EMAIL"`
	AdminPassword    string        `env:"ADMIN_PASSWORD"`
}

// NewConfig reads the command line flags and lets the environment override them.
func NewConfig() (Config, error) {
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{}

	fs.StringVar(&cfg.ServerAddr, "a", "0.0.0.0:8080", "server listening address [env:RUN_ADDRESS]")
	fs.StringVar(&cfg.LogLevel, "l", "info", "log output level [env:LOG_LEVEL]")
	fs.StringVar(&cfg.LogFormat, "f", "json", "log output format: json or text [env:LOG_FORMAT]")
	fs.StringVar(&cfg.DatabaseURI, "d", "", "database connection string, in-memory store when empty [env:DATABASE_URI]")
	fs.StringVar(&cfg.JWTSecretKey, "s", "secretkey", "JWT secret to sign tokens [env:JWT_SECRET_KEY]")
	fs.DurationVar(&cfg.JWTTokenTTL, "t", 24*time.Hour, "JWT token time to live [env:JWT_TOKEN_TTL]")
	fs.StringVar(&cfg.PushGatewayURL, "p", "", "push gateway URL, push disabled when empty [env:PUSH_GATEWAY_URL]")
	fs.DurationVar(&cfg.PushPollInterval, "i", 10*time.Second, "push dispatcher poll interval [env:PUSH_POLL_INTERVAL]")
	fs.StringVar(&cfg.AdminUsername, "admin-username", "", "bootstrap administrator username [env:ADMIN_USERNAME]")
	fs.StringVar(&cfg.AdminEmail, "admin-email", "", "bootstrap administrator email [env:ADMIN_EMAIL]")
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "bootstrap administrator password [env:ADMIN_PASSWORD]")

	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("fs.Parse: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("env.Parse: %w", err)
	}

	return cfg, nil
}
