package chatterous

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
[bot]
token = "abc"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "!", cfg.Bot.Prefix)
	assert.Equal(t, "chatterous.db", cfg.DB.Path)
	assert.Equal(t, 5000, cfg.Heartbeat.Port)
	assert.Equal(t, []string{"👍", "🤖", "🔥"}, cfg.AutoReact.Emojis)
	assert.Equal(t, 10, cfg.AutoReact.CooldownSeconds)
	assert.Equal(t, 30, cfg.AutoReply.CooldownSeconds)
	assert.Equal(t, 15, cfg.AutoReply.ChancePercent)
	assert.NotEmpty(t, cfg.AutoReply.Replies)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	path := writeConfig(t, `
[bot]
prefix = "!"
`)

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestLoadConfig_EnvOverridesToken(t *testing.T) {
	path := writeConfig(t, `
[bot]
token = "from-file"
`)
	t.Setenv("CHATTEROUS_BOT_TOKEN", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Bot.Token)
}

func TestLoadConfig_ExplicitValuesKept(t *testing.T) {
	path := writeConfig(t, `
[bot]
token = "abc"
prefix = "?"

[heartbeat]
port = 8080

[auto_reply]
chance_percent = 50
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "?", cfg.Bot.Prefix)
	assert.Equal(t, 8080, cfg.Heartbeat.Port)
	assert.Equal(t, 50, cfg.AutoReply.ChancePercent)
}
