// Package config собирает конфигурацию клиента и сервера из флагов,
// переменных окружения (префикс RESTAURANTS_), .env и файла конфигурации.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "RESTAURANTS"

// Общие ключи
const (
	KeyConfig    = "config"
	KeyEnvFile   = "env-file"
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
)

// addCommonFlags регистрирует флаги, общие для клиента и сервера
func addCommonFlags(flags *pflag.FlagSet, logLevel string) {
	flags.String(KeyConfig, "", "Path to config file (yaml, json, toml)")
	flags.String(KeyEnvFile, ".env", "Path to .env file")
	flags.String(KeyLogLevel, logLevel, "Log level: debug, info, warn, error")
	flags.String(KeyLogFormat, "text", "Log format: text, json")
}

// load загружает .env, файл конфигурации и связывает флаги с viper.
// Приоритет: явно заданный флаг, окружение, файл конфигурации, значение флага по умолчанию.
func load(flags *pflag.FlagSet) (*viper.Viper, error) {
	envFile, err := flags.GetString(KeyEnvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s flag: %w", KeyEnvFile, err)
	}
	if envFile != "" {
		// Отсутствие .env не ошибка; уже заданные переменные не перезаписываются
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if configFile := v.GetString(KeyConfig); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	return v, nil
}
