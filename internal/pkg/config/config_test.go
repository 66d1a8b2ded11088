package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": testSecret,
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "storefront_session", cfg.Session.Cookie)
	assert.Equal(t, "redis", cfg.Session.Driver)
	assert.Equal(t, 4, cfg.Audit.Workers)
	assert.Equal(t, "storefront", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": testSecret,
		"SESSION_TTL":    "30m",
		"SESSION_SECURE": "true",
		"SESSION_DRIVER": "memory",
		"ENV":            "production",
		"REDIS_PASSWORD": "hunter2",
	}))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, "memory", cfg.Session.Driver)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "hunter2", cfg.Redis.Password)
}

func TestLoadFrom_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "SESSION_SECRET"},
		{"short secret", map[string]string{"SESSION_SECRET": "short"}, "at least 32"},
		{"bad driver", map[string]string{"SESSION_SECRET": testSecret, "SESSION_DRIVER": "file"}, "SESSION_DRIVER"},
		{"zero burst", map[string]string{"SESSION_SECRET": testSecret, "LOGIN_BURST": "0"}, "LOGIN_BURST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(tt.env))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}
