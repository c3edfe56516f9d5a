package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	RunAddress         string   `env:"RUN_ADDRESS"`
	DatabaseDSN        string   `env:"DATABASE_URI"`
	MigrationsDir      string   `env:"MIGRATIONS_DIR"`
	JWTSecret          string   `env:"JWT_SECRET"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	LogLevel           string   `env:"LOG_LEVEL"`
}

// String не выводит секреты в лог.
func (c Config) String() string {
	return fmt.Sprintf(
		"{RunAddress:%s MigrationsDir:%s CORSAllowedOrigins:%v LogLevel:%s}",
		c.RunAddress, c.MigrationsDir, c.CORSAllowedOrigins, c.LogLevel,
	)
}

func LoadConfig() (*Config, error) {
	var envConfig Config

	if dotEnvErr := loadDotEnv(".env"); dotEnvErr != nil {
		return nil, fmt.Errorf("load .env: %s", dotEnvErr.Error())
	}
	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	flagsConfig, flagsErr := loadFlags(flag.CommandLine, os.Args[1:])
	if flagsErr != nil {
		return nil, fmt.Errorf("parse flags: %s", flagsErr.Error())
	}

	conf := mergeConfig(&envConfig, flagsConfig)
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

// loadDotEnv подгружает переменные из файла path вне продакшн окружения. Уже выставленные переменные
// окружения не перезаписываются, отсутствие файла не ошибка.
func loadDotEnv(path string) error {
	if os.Getenv("GIN_MODE") == "release" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err //nolint:wrapcheck
	}
	return nil
}

func (c *Config) validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is not set")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is not set")
	}
	return nil
}

func loadFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	var flagConfig Config
	var corsOrigins string

	fs.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	fs.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	fs.StringVar(&flagConfig.MigrationsDir, "m", "migrations", "Database migrations directory")
	fs.StringVar(&flagConfig.JWTSecret, "j", "", "JWT signing secret")
	fs.StringVar(&flagConfig.LogLevel, "l", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&corsOrigins, "c", "http://localhost:3000", "Comma separated list of allowed CORS origins")

	if err := fs.Parse(args); err != nil {
		return nil, err //nolint:wrapcheck
	}
	flagConfig.CORSAllowedOrigins = splitOrigins(corsOrigins)
	return &flagConfig, nil
}

// mergeConfig значения из env приоритетнее флагов.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	origins := envConfig.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = flagsConfig.CORSAllowedOrigins
	}
	return &Config{
		RunAddress:         defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:        defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:      defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTSecret:          defaultIfBlank(envConfig.JWTSecret, flagsConfig.JWTSecret),
		CORSAllowedOrigins: origins,
		LogLevel:           defaultIfBlank(envConfig.LogLevel, flagsConfig.LogLevel),
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
