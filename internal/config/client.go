package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

// Ключи клиента
const (
	KeyServer  = "server"
	KeyTimeout = "timeout"
)

// ClientConfig конфигурация клиента
type ClientConfig struct {
	Server    string
	LogLevel  string
	LogFormat string
	Timeout   time.Duration
}

// AddClientFlags регистрирует флаги клиента.
// Логи клиента по умолчанию только warn и выше, чтобы не мешать форме.
func AddClientFlags(flags *pflag.FlagSet) {
	addCommonFlags(flags, "warn")
	flags.String(KeyServer, "http://localhost:8080", "Server base URL")
	flags.Duration(KeyTimeout, 10*time.Second, "Request timeout")
}

// LoadClient читает конфигурацию клиента
func LoadClient(flags *pflag.FlagSet) (ClientConfig, error) {
	v, err := load(flags)
	if err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		Server:    v.GetString(KeyServer),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		Timeout:   v.GetDuration(KeyTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}

	return cfg, nil
}

// Validate проверяет конфигурацию клиента
func (c ClientConfig) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid server url %q", c.Server)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
