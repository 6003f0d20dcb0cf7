package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, ResolveBaseURL(""))
	assert.Equal(t, DefaultBaseURL, ResolveBaseURL("   "))
	assert.Equal(t, "http://localhost:8000", ResolveBaseURL("http://localhost:8000/"))
	assert.Equal(t, "http://localhost:8000/api", ResolveBaseURL(" http://localhost:8000/api// "))
}

func TestResolveBaseURL_BuildOverride(t *testing.T) {
	prev := buildBaseURL
	buildBaseURL = "https://staging.example.com/"
	t.Cleanup(func() { buildBaseURL = prev })

	assert.Equal(t, "https://staging.example.com", ResolveBaseURL(""))
	assert.Equal(t, "http://localhost:8000", ResolveBaseURL("http://localhost:8000"))
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://127.0.0.1:9999/")

	cfg := Load()
	assert.Equal(t, "http://127.0.0.1:9999", cfg.BaseURL)
	assert.Equal(t, "chatbot.db", cfg.StorePath)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.False(t, cfg.Ephemeral)
}
