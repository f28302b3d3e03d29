package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/app/config.json", env.ConfigPath)
	assert.Equal(t, ":80", env.ListenAddr)
	assert.Equal(t, "roborock", env.MQTTTopicPrefix)
	assert.Equal(t, 10*time.Second, env.HTTPTimeout)
	assert.Equal(t, slog.LevelInfo, env.SlogLevel())
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("HASS_URL", "http://ha:8123")
	t.Setenv("HASS_TOKEN", "secret")
	t.Setenv("CONFIG_PATH", "/tmp/panel.json")
	t.Setenv("MQTT_BROKER", "mqtt://mosquitto:1883")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://ha:8123", env.HassURL)
	assert.Equal(t, "secret", env.HassToken)
	assert.Equal(t, "/tmp/panel.json", env.ConfigPath)
	assert.Equal(t, "mqtt://mosquitto:1883", env.MQTTBroker)
	assert.Equal(t, 3*time.Second, env.HTTPTimeout)
	assert.Equal(t, slog.LevelDebug, env.SlogLevel())
}

func TestLoadEnv_RejectsBadTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "0s")
	_, err := LoadEnv()
	assert.Error(t, err)
}
