package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Ключи сервера
const (
	KeyAddr            = "addr"
	KeyStorage         = "storage"
	KeyBroker          = "broker"
	KeyJWTSecret       = "jwt-secret"
	KeyTokenTTL        = "token-ttl"
	KeyCreateRate      = "create-rate"
	KeyCreateWindow    = "create-window"
	KeyShutdownTimeout = "shutdown-timeout"
)

// ServerConfig конфигурация сервера
type ServerConfig struct {
	Addr            string
	Storage         string
	Broker          string
	JWTSecret       string
	LogLevel        string
	LogFormat       string
	TokenTTL        time.Duration
	CreateWindow    time.Duration
	ShutdownTimeout time.Duration
	CreateRate      int
}

// AddServerFlags регистрирует флаги сервера
func AddServerFlags(flags *pflag.FlagSet) {
	addCommonFlags(flags, "info")
	flags.String(KeyAddr, ":8080", "HTTP listen address")
	flags.String(KeyStorage, "sqlite://restaurants.db", "Storage DSN: sqlite://path, bolt://path, postgres://...")
	flags.String(KeyBroker, "memory", "Broker: memory or redis://host:port/db")
	flags.String(KeyJWTSecret, "", "Session token signing secret (random if empty)")
	flags.Duration(KeyTokenTTL, 24*time.Hour, "Session token lifetime")
	flags.Int(KeyCreateRate, 30, "Max restaurant creations per client per window")
	flags.Duration(KeyCreateWindow, time.Minute, "Create rate limit window")
	flags.Duration(KeyShutdownTimeout, 10*time.Second, "Graceful shutdown timeout")
}

// LoadServer читает конфигурацию сервера
func LoadServer(flags *pflag.FlagSet) (ServerConfig, error) {
	v, err := load(flags)
	if err != nil {
		return ServerConfig{}, err
	}

	cfg := ServerConfig{
		Addr:            v.GetString(KeyAddr),
		Storage:         v.GetString(KeyStorage),
		Broker:          v.GetString(KeyBroker),
		JWTSecret:       v.GetString(KeyJWTSecret),
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       v.GetString(KeyLogFormat),
		TokenTTL:        v.GetDuration(KeyTokenTTL),
		CreateRate:      v.GetInt(KeyCreateRate),
		CreateWindow:    v.GetDuration(KeyCreateWindow),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}

	return cfg, nil
}

// Validate проверяет конфигурацию сервера
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.Storage == "" {
		return fmt.Errorf("storage must not be empty")
	}
	if c.Broker == "" {
		return fmt.Errorf("broker must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token-ttl must be positive, got %s", c.TokenTTL)
	}
	if c.CreateRate <= 0 {
		return fmt.Errorf("create-rate must be positive, got %d", c.CreateRate)
	}
	if c.CreateWindow <= 0 {
		return fmt.Errorf("create-window must be positive, got %s", c.CreateWindow)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown-timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}
