package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`

	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
	DefaultCapacity int           `mapstructure:"default_capacity"`
	MaxCapacity     int           `mapstructure:"max_capacity"`
	VoteScale       string        `mapstructure:"vote_scale"`

	RateLimit    int           `mapstructure:"rate_limit"`
	RateInterval time.Duration `mapstructure:"rate_interval"`

	CORSDomains []string `mapstructure:"cors_domains"`
	CORSMethods []string `mapstructure:"cors_methods"`
	CORSHeaders []string `mapstructure:"cors_headers"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("token_ttl", "12h")
	v.SetDefault("idle_timeout", "10m")
	v.SetDefault("sweep_interval", "60s")
	v.SetDefault("default_capacity", 8)
	v.SetDefault("max_capacity", 50)
	v.SetDefault("vote_scale", "any")
	v.SetDefault("rate_limit", 100)
	v.SetDefault("rate_interval", "15m")
	v.SetDefault("cors_domains", []string{"*"})

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Scale: %s | Idle: %s\n", cfg.Mode, cfg.Port, cfg.VoteScale, cfg.IdleTimeout)
	return &cfg, nil
}
