package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort       int    `mapstructure:"http_port"`
	GRPCPort       int    `mapstructure:"grpc_port"`
	LogLevel       string `mapstructure:"log_level"`
	DatabaseDriver string `mapstructure:"database_driver"` // mysql, postgres, sqlserver or sqlite
	DatabaseURL    string `mapstructure:"database_url"`
	ServiceName    string `mapstructure:"service_name"`
	JwtSecret      string `mapstructure:"jwt_secret"`
	SeedData       bool   `mapstructure:"seed_data"`

	Consul ConsulConfig `mapstructure:"consul"`
}

type ConsulConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Address     string `mapstructure:"address"`
	ServiceHost string `mapstructure:"service_host"` // Address consul uses to reach this instance
}

const (
	envPrefix        = "THERAPYHUB"
	defaultJwtSecret = "default-very-insecure-secret-key"
)

var AppConfig Config

// Load reads config.yaml (optional), a .env file (optional) and THERAPYHUB_* environment
// variables, in increasing order of precedence over the defaults.
func Load(paths ...string) (*Config, error) {
	// .env is a convenience for local runs; a missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_port", 8080)
	v.SetDefault("grpc_port", 50051)
	v.SetDefault("log_level", "info")
	v.SetDefault("database_driver", "mysql")
	v.SetDefault("database_url", "")
	v.SetDefault("service_name", "therapyhub-menus")
	v.SetDefault("jwt_secret", defaultJwtSecret)
	v.SetDefault("seed_data", true)
	v.SetDefault("consul.enabled", false)
	v.SetDefault("consul.address", "127.0.0.1:8500")
	v.SetDefault("consul.service_host", "127.0.0.1")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return &cfg, nil
}

// InsecureJwtSecret reports whether the built-in development secret is still in use.
func (c *Config) InsecureJwtSecret() bool {
	return c.JwtSecret == defaultJwtSecret
}

func InitConfig() {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Errorf("fatal error loading config: %w", err))
	}
	AppConfig = *cfg
}
