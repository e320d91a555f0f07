package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
	} `mapstructure:"smtp"`

	Stripe struct {
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"stripe"`

	App struct {
		BaseURL        string   `mapstructure:"base_url"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"app"`

	Log struct {
		Level  string `mapstructure:"level"`
		Pretty bool   `mapstructure:"pretty"`
	} `mapstructure:"log"`
}

// Load reads config.yaml (optional) and environment variables prefixed with
// APP_, e.g. APP_AUTH_JWT_SECRET or APP_MONGO_URI.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("mongo.uri is not set")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is not set")
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("mongo.database", "serviesPro")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.from", "Service Pro <servicepro24x@gmail.com>")
	viper.SetDefault("app.base_url", "https://www.servicepro24x7.com")
	viper.SetDefault("app.allowed_origins", []string{"http://localhost:5173", "https://www.servicepro24x7.com"})
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.pretty", false)
}
