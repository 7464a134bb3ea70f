package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.GamePort)
	assert.Equal(t, 60, cfg.Server.TickRate)
	assert.Equal(t, "json", cfg.Session.FrameCodec)
	assert.Equal(t, 24*time.Hour, cfg.Session.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	assert.True(t, cfg.Simulation.PauseOnDraft)
	assert.Equal(t, 30.0, cfg.Simulation.Spawn.WaveDuration)
	assert.Equal(t, time.Second/60, cfg.Server.TickInterval())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  game_port: 9001
  debug: true
session:
  jwt_secret: abc
  frame_codec: msgpack
  snapshot_every: 3
simulation:
  world_width: 1000
  world_height: 800
  spawn:
    wave_duration: 10
    barrage_category: undead
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, LoadConfig(path))
	cfg := GlobalConfig
	assert.Equal(t, 9001, cfg.Server.GamePort)
	assert.Equal(t, "abc", cfg.Session.JWTSecret)
	assert.Equal(t, "msgpack", cfg.Session.FrameCodec)
	assert.Equal(t, 3, cfg.Session.SnapshotEvery)

	s, cc, sep := cfg.Simulation.ToSettings(cfg.Server.Debug)
	assert.True(t, s.Debug)
	assert.Equal(t, 1000.0, s.World.Width)
	assert.Equal(t, 800.0, s.World.Height)
	assert.Equal(t, 10.0, s.WaveDuration)
	assert.Equal(t, 2.0, s.BaseInterval)
	assert.Equal(t, catalog.MonsterUndead, s.BarrageCategory)
	assert.Greater(t, cc.TouchCooldown, 0.0)
	assert.Equal(t, 28.0, sep.Radius)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
