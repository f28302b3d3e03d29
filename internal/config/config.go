// Package config reads the process environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Env struct {
	HassURL         string        `mapstructure:"hass_url"`
	HassToken       string        `mapstructure:"hass_token"`
	ConfigPath      string        `mapstructure:"config_path"`
	CardConfig      string        `mapstructure:"card_config"`
	LocalIP         string        `mapstructure:"local_ip"`
	ListenAddr      string        `mapstructure:"listen_addr"`
	MQTTBroker      string        `mapstructure:"mqtt_broker"`
	MQTTTopicPrefix string        `mapstructure:"mqtt_topic_prefix"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	LogLevel        string        `mapstructure:"log_level"`
}

var keys = []string{
	"hass_url", "hass_token", "config_path", "card_config", "local_ip", "listen_addr",
	"mqtt_broker", "mqtt_topic_prefix", "http_timeout", "log_level",
}

func LoadEnv() (*Env, error) {
	v := viper.New()
	v.SetDefault("config_path", "/app/config.json")
	v.SetDefault("listen_addr", ":80")
	v.SetDefault("mqtt_topic_prefix", "roborock")
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about.
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, err
		}
	}

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal env: %w", err)
	}
	if env.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", env.HTTPTimeout)
	}
	return &env, nil
}

func (e *Env) SlogLevel() slog.Level {
	switch strings.ToLower(e.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
