package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	StaticPath     string        `mapstructure:"static_path"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	SessionSecret  string        `mapstructure:"session_secret"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ICEServers     []ICEServer   `mapstructure:"ice_servers"`
}

// Load reads config/config.<env>.yaml selected by CONFIG_ENV. A
// missing file is not fatal; defaults cover everything.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	v.SetConfigFile(fmt.Sprintf("config/config.%s.yaml", env))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigParseError); ok {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8000)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("session_secret", "baatlink-dev-secret")
	v.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302", "stun:stun1.l.google.com:19302"}},
	})
}
