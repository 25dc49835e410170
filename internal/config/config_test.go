package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifesync/internal/orchestrator"
)

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultConfigDir())

	cfg, err := New("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), cfg.Dir)

	cfg, err = New("/etc/custom")
	require.NoError(t, err)
	assert.Equal(t, "/etc/custom/providers.json", cfg.ProvidersPath())
}

func TestLoadProviders(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(dir)
	require.NoError(t, err)

	_, err = cfg.LoadProviders()
	assert.ErrorIs(t, err, ErrNotConfigured)

	writeFile(t, cfg.ProvidersPath(), `{
		"sync": {"perCallTimeoutMs": 2500, "maxConcurrentAdapters": 1, "retryBackoffMs": 0, "cacheTtlMs": 60000},
		"log": {"level": "info"},
		"providers": [
			{"type": "static"},
			{"name": "work-mail", "type": "Gmail", "token": "tok", "params": {"query": "is:unread"}},
			{"name": "old", "type": "slack", "token": "x", "disabled": true}
		]
	}`)

	p, err := cfg.LoadProviders()
	require.NoError(t, err)
	require.Len(t, p.Providers, 3)

	assert.Equal(t, "static", p.Providers[0].Name, "name defaults to type")
	assert.Equal(t, "gmail", p.Providers[1].Type, "type is normalized")
	assert.Equal(t, "work-mail", p.Providers[1].Name)
	assert.True(t, p.Providers[2].Disabled)

	assert.Equal(t, "info", p.Log.Level)
	assert.Equal(t, "stderr", p.Log.OutputPath, "unset log fields keep defaults")

	opts := p.Sync.Options()
	assert.Equal(t, 2500*time.Millisecond, opts.PerCallTimeout)
	assert.Equal(t, 1, opts.MaxConcurrentAdapters)
	assert.Equal(t, time.Duration(0), opts.RetryBackoff)
	assert.Equal(t, time.Minute, opts.CacheTTL)
}

func TestSyncSettingsDefaults(t *testing.T) {
	opts := SyncSettings{}.Options()
	assert.Equal(t, orchestrator.DefaultOptions(), opts)
}

func TestParseProvidersRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{providers`},
		{"missing providers", `{}`},
		{"unknown key", `{"providers": [], "extra": 1}`},
		{"missing type", `{"providers": [{"name": "a"}]}`},
		{"colon in name", `{"providers": [{"name": "a:b", "type": "static"}]}`},
		{"bad level", `{"log": {"level": "loud"}, "providers": []}`},
		{"zero concurrency", `{"sync": {"maxConcurrentAdapters": 0}, "providers": []}`},
		{"non-string param", `{"providers": [{"type": "slack", "params": {"channel": 5}}]}`},
		{"bad base url", `{"providers": [{"type": "github", "baseUrl": "ftp://x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProviders([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLogLevelEnvOverride(t *testing.T) {
	t.Setenv(LogLevelEnv, "debug")
	p, err := ParseProviders([]byte(`{"log": {"level": "error"}, "providers": []}`))
	require.NoError(t, err)
	assert.Equal(t, "debug", p.Log.Level)
}

func TestProviderEntryCredential(t *testing.T) {
	t.Setenv("LIFESYNC_TEST_TOKEN", "  from-env ")

	cred, err := ProviderEntry{Name: "a", TokenEnv: "LIFESYNC_TEST_TOKEN", Domain: " acme "}.Credential()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cred.Token)
	assert.Equal(t, "acme", cred.Domain)

	cred, err = ProviderEntry{Name: "a", Token: "inline", TokenEnv: "LIFESYNC_TEST_TOKEN"}.Credential()
	require.NoError(t, err)
	assert.Equal(t, "inline", cred.Token)

	_, err = ProviderEntry{Name: "a", TokenEnv: "LIFESYNC_UNSET_TOKEN_VAR"}.Credential()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cred, err = ProviderEntry{Name: "a"}.Credential()
	require.NoError(t, err)
	assert.True(t, cred.IsZero())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}
