package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm/rigor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "rigor.yaml", `
flavor: debug
escape: false
clear_on_update: true
log_level: debug
redis:
  addr: localhost:6379
  sealed: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Flavor)
	assert.False(t, cfg.Escape)
	assert.True(t, cfg.ClearOnUpdate)
	assert.Equal(t, zap.DebugLevel, cfg.Level())
	assert.Equal(t, ":8080", cfg.Listen, "unset keys keep their default")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "rigor:bus", cfg.Redis.Channel)
	assert.True(t, cfg.Redis.Sealed)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "rigor.json", `{"flavor": "modern", "listen": ":9000"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "modern", cfg.Flavor)
	assert.Equal(t, ":9000", cfg.Listen)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad yaml", "rigor.yaml", "flavor: [unterminated"},
		{"bad json", "rigor.json", "{"},
		{"unknown flavor", "rigor.yaml", "flavor: vanilla"},
		{"bad log level", "rigor.yaml", "log_level: loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnknownFlavorWrapsSentinel(t *testing.T) {
	_, err := Load(writeFile(t, "rigor.yaml", "flavor: vanilla"))
	assert.ErrorIs(t, err, rigor.ErrUnknownFlavor)
}

func TestRendererOptions(t *testing.T) {
	cfg := Default()
	cfg.Escape = true

	opts, err := cfg.RendererOptions(zap.NewNop(), rigor.PubsubPlugin(rigor.NewBus()))
	require.NoError(t, err)

	r := rigor.New(opts...)
	html, err := r.RenderToString(rigor.Node{"p", "<x>"})
	require.NoError(t, err)
	assert.Equal(t, "<p>&lt;x&gt;</p>", html)
	assert.Len(t, r.Plugins(), len(rigor.SafeFlavor.Plugins)+1)

	cfg.Flavor = "nope"
	_, err = cfg.RendererOptions(zap.NewNop())
	assert.ErrorIs(t, err, rigor.ErrUnknownFlavor)
}
