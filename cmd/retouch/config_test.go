package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/retouch"
)

const sessionTOML = `
input = "portrait.jpg"
output = "out.png"
max_display = 800
log_level = "debug"

[face]
small_face = 20
eye_size = -10

[body]
waist = 15
waist_anchor = [400, 900]

[tone]
warmth = 30

[filter]
preset = "sepia"
intensity = 60

[effects]
skin_smooth = 50

[[strokes]]
x = 100
y = 200
radius = 40
mode = "pull"
strength = 0.5
drag_x = 10

[[skin_dabs]]
x = 300
y = 300
radius = 80
value = 1
hardness = 0.5
`

func writeSession(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// chdirTemp keeps godotenv from picking up a stray .env file.
func chdirTemp(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

func TestLoadConfigFile(t *testing.T) {
	chdirTemp(t)
	cfg, opts, err := loadConfig([]string{"-c", writeSession(t, sessionTOML)})
	require.NoError(t, err)
	assert.NotEmpty(t, opts.configPath)

	assert.Equal(t, "portrait.jpg", cfg.Input)
	assert.Equal(t, "out.png", cfg.Output)
	assert.Equal(t, 800, cfg.MaxDisplay)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 20.0, cfg.Face.SmallFace)
	assert.Equal(t, -10.0, cfg.Face.EyeSize)
	assert.Equal(t, []float64{400, 900}, cfg.Body.WaistAnchor)
	assert.Equal(t, "sepia", cfg.Filter.Preset)
	assert.Equal(t, 100.0, cfg.Effects.PrivacyBlur, "default survives a partial section")
	require.Len(t, cfg.Strokes, 1)
	assert.Equal(t, "pull", cfg.Strokes[0].Mode)
	require.Len(t, cfg.SkinDabs, 1)
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirTemp(t)
	cfg, _, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), *cfg)
}

func TestLoadConfigFlagOverridesFile(t *testing.T) {
	chdirTemp(t)
	cfg, _, err := loadConfig([]string{
		"--config", writeSession(t, sessionTOML),
		"-o", "flag.png",
		"--max-display", "0",
		"--workers", "3",
	})
	require.NoError(t, err)
	assert.Equal(t, "flag.png", cfg.Output)
	assert.Equal(t, 0, cfg.MaxDisplay)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "portrait.jpg", cfg.Input)
}

func TestLoadConfigEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("RETOUCH_INPUT", "env.png")
	t.Setenv("RETOUCH_TEXTURE_FALLOFF", "6")

	cfg, _, err := loadConfig([]string{"-c", writeSession(t, sessionTOML)})
	require.NoError(t, err)
	assert.Equal(t, "env.png", cfg.Input)
	assert.Equal(t, 6.0, cfg.TextureFalloff)
}

func TestLoadConfigDotEnv(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(".env", []byte("RETOUCH_LOG_LEVEL=warn\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("RETOUCH_LOG_LEVEL") })

	cfg, _, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"slider out of range", "[face]\nsmall_face = 80\n"},
		{"unknown preset", "[filter]\npreset = \"neon\"\nintensity = 50\n"},
		{"bad log level", "log_level = \"loud\"\n"},
		{"anchor arity", "[body]\nchest_anchor = [1, 2, 3]\n"},
		{"stroke mode", "[[strokes]]\nradius = 5\nmode = \"smudge\"\n"},
		{"dab radius", "[[privacy_dabs]]\nradius = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			_, _, err := loadConfig([]string{"-c", writeSession(t, tt.body)})
			assert.ErrorContains(t, err, "invalid session")
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	chdirTemp(t)
	_, _, err := loadConfig([]string{"-c", filepath.Join(t.TempDir(), "nope.toml")})
	assert.ErrorContains(t, err, "read session file")
}

func TestLoadConfigHelp(t *testing.T) {
	_, _, err := loadConfig([]string{"-h"})
	assert.ErrorIs(t, err, errHelp)
}

func TestWriteDefaultConfig(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "default.toml")

	_, opts, err := loadConfig([]string{"--init", path})
	require.NoError(t, err)
	assert.Equal(t, path, opts.initPath)

	require.NoError(t, writeDefaultConfig(path))
	cfg, _, err := loadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), *cfg)

	assert.Error(t, writeDefaultConfig(path), "existing file is kept")
}

func TestConfigConversions(t *testing.T) {
	chdirTemp(t)
	cfg, _, err := loadConfig([]string{"-c", writeSession(t, sessionTOML)})
	require.NoError(t, err)

	adj := cfg.adjustments()
	assert.Equal(t, 20.0, adj[retouch.SmallFace])
	assert.Equal(t, 15.0, adj[retouch.Waist])
	assert.Equal(t, 0.0, adj[retouch.Chest])

	anchors := cfg.anchors(0.5)
	assert.Equal(t, map[retouch.AnchorName]retouch.Point{retouch.AnchorWaist: retouch.Pt(200, 450)}, anchors)

	assert.Equal(t, retouch.Tone{Warmth: 30}, cfg.tone())
	assert.Equal(t, retouch.Filter{Preset: retouch.FilterSepia, Intensity: 60}, cfg.filter())

	strokes, err := cfg.strokes(0.5)
	require.NoError(t, err)
	require.Len(t, strokes, 1)
	assert.Equal(t, retouch.Pt(50, 100), strokes[0].Center)
	assert.Equal(t, 20.0, strokes[0].Radius)
	assert.Equal(t, retouch.BrushPull, strokes[0].Mode)
	assert.Equal(t, retouch.Pt(5, 0), strokes[0].Drag)

	d := dabs(cfg.SkinDabs, 0.5)
	require.Len(t, d, 1)
	assert.Equal(t, retouch.Pt(150, 150), d[0].Center)
	assert.Equal(t, 40.0, d[0].Radius)
	assert.Equal(t, float32(1), d[0].Value)
}

func TestConfigStrokeUnknownMode(t *testing.T) {
	cfg := defaultConfig()
	cfg.Strokes = []StrokeConfig{{Radius: 5, Mode: "smudge"}}
	_, err := cfg.strokes(1)
	assert.ErrorContains(t, err, "unknown mode")
}
