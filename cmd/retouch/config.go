package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gogpu/retouch"
)

// errHelp is returned when -h was requested; usage is already printed.
var errHelp = errors.New("help requested")

// Config is one retouch session: the files involved and every edit.
// Coordinates are in source image pixels.
type Config struct {
	Input      string `mapstructure:"input" toml:"input" validate:"required"`
	Output     string `mapstructure:"output" toml:"output" validate:"required"`
	Preview    string `mapstructure:"preview" toml:"preview,omitempty"`
	Landmarks  string `mapstructure:"landmarks" toml:"landmarks,omitempty"`
	Canonical  bool   `mapstructure:"canonical" toml:"canonical"`
	MaxDisplay int    `mapstructure:"max_display" toml:"max_display" validate:"gte=0"`
	Workers    int    `mapstructure:"workers" toml:"workers" validate:"gte=0"`
	LogLevel   string `mapstructure:"log_level" toml:"log_level" validate:"oneof=debug info warn error"`
	LogFile    string `mapstructure:"log_file" toml:"log_file,omitempty"`

	// TextureFalloff enables the texture-preserving liquify blend when > 0.
	TextureFalloff float64 `mapstructure:"texture_falloff" toml:"texture_falloff" validate:"gte=0"`

	Face    FaceConfig    `mapstructure:"face" toml:"face"`
	Body    BodyConfig    `mapstructure:"body" toml:"body"`
	Tone    ToneConfig    `mapstructure:"tone" toml:"tone"`
	Filter  FilterConfig  `mapstructure:"filter" toml:"filter"`
	Effects EffectsConfig `mapstructure:"effects" toml:"effects"`

	Strokes     []StrokeConfig `mapstructure:"strokes" toml:"strokes,omitempty" validate:"dive"`
	SkinDabs    []DabConfig    `mapstructure:"skin_dabs" toml:"skin_dabs,omitempty" validate:"dive"`
	PrivacyDabs []DabConfig    `mapstructure:"privacy_dabs" toml:"privacy_dabs,omitempty" validate:"dive"`
}

// FaceConfig holds the face sliders.
type FaceConfig struct {
	SmallFace      float64 `mapstructure:"small_face" toml:"small_face" validate:"gte=-50,lte=50"`
	SlimJaw        float64 `mapstructure:"slim_jaw" toml:"slim_jaw" validate:"gte=-50,lte=50"`
	JawSmooth      float64 `mapstructure:"jaw_smooth" toml:"jaw_smooth" validate:"gte=0,lte=100"`
	ChinLength     float64 `mapstructure:"chin_length" toml:"chin_length" validate:"gte=-50,lte=50"`
	ForeheadHeight float64 `mapstructure:"forehead_height" toml:"forehead_height" validate:"gte=-50,lte=50"`
	Cheekbone      float64 `mapstructure:"cheekbone" toml:"cheekbone" validate:"gte=-50,lte=50"`
	EyeSize        float64 `mapstructure:"eye_size" toml:"eye_size" validate:"gte=-50,lte=50"`
	EyeDistance    float64 `mapstructure:"eye_distance" toml:"eye_distance" validate:"gte=-50,lte=50"`
	EyeTilt        float64 `mapstructure:"eye_tilt" toml:"eye_tilt" validate:"gte=-50,lte=50"`
	EyelidLift     float64 `mapstructure:"eyelid_lift" toml:"eyelid_lift" validate:"gte=0,lte=100"`
	BrowHeight     float64 `mapstructure:"brow_height" toml:"brow_height" validate:"gte=-50,lte=50"`
	NoseWidth      float64 `mapstructure:"nose_width" toml:"nose_width" validate:"gte=-50,lte=50"`
	NoseLength     float64 `mapstructure:"nose_length" toml:"nose_length" validate:"gte=-50,lte=50"`
	LipFullness    float64 `mapstructure:"lip_fullness" toml:"lip_fullness" validate:"gte=-50,lte=50"`
	MouthWidth     float64 `mapstructure:"mouth_width" toml:"mouth_width" validate:"gte=-50,lte=50"`
	Smile          float64 `mapstructure:"smile" toml:"smile" validate:"gte=0,lte=100"`
}

// BodyConfig holds the body sliders and their anchors. An anchor is an
// [x, y] pair; an empty anchor disables its region.
type BodyConfig struct {
	Chest       float64   `mapstructure:"chest" toml:"chest" validate:"gte=-50,lte=50"`
	Waist       float64   `mapstructure:"waist" toml:"waist" validate:"gte=-50,lte=50"`
	Thigh       float64   `mapstructure:"thigh" toml:"thigh" validate:"gte=-50,lte=50"`
	ChestAnchor []float64 `mapstructure:"chest_anchor" toml:"chest_anchor,omitempty" validate:"omitempty,len=2"`
	WaistAnchor []float64 `mapstructure:"waist_anchor" toml:"waist_anchor,omitempty" validate:"omitempty,len=2"`
	ThighAnchor []float64 `mapstructure:"thigh_anchor" toml:"thigh_anchor,omitempty" validate:"omitempty,len=2"`
}

// ToneConfig holds the tone sliders.
type ToneConfig struct {
	Exposure   float64 `mapstructure:"exposure" toml:"exposure" validate:"gte=-100,lte=100"`
	Brightness float64 `mapstructure:"brightness" toml:"brightness" validate:"gte=-100,lte=100"`
	Contrast   float64 `mapstructure:"contrast" toml:"contrast" validate:"gte=-100,lte=100"`
	Saturation float64 `mapstructure:"saturation" toml:"saturation" validate:"gte=-100,lte=100"`
	Warmth     float64 `mapstructure:"warmth" toml:"warmth" validate:"gte=-100,lte=100"`
}

// FilterConfig selects a stylistic preset.
type FilterConfig struct {
	Preset    string  `mapstructure:"preset" toml:"preset" validate:"omitempty,oneof=mono sepia vivid fade cool"`
	Intensity float64 `mapstructure:"intensity" toml:"intensity" validate:"gte=0,lte=100"`
}

// EffectsConfig holds the masked effects and the vignette.
type EffectsConfig struct {
	SkinSmooth  float64 `mapstructure:"skin_smooth" toml:"skin_smooth" validate:"gte=0,lte=100"`
	PrivacyBlur float64 `mapstructure:"privacy_blur" toml:"privacy_blur" validate:"gte=0,lte=100"`
	Vignette    float64 `mapstructure:"vignette" toml:"vignette" validate:"gte=0,lte=100"`
}

// StrokeConfig is one liquify brush stroke.
type StrokeConfig struct {
	X        float64 `mapstructure:"x" toml:"x"`
	Y        float64 `mapstructure:"y" toml:"y"`
	Radius   float64 `mapstructure:"radius" toml:"radius" validate:"gt=0"`
	Mode     string  `mapstructure:"mode" toml:"mode" validate:"oneof=push pull shrink expand restore"`
	Strength float64 `mapstructure:"strength" toml:"strength" validate:"gte=0,lte=1"`
	DragX    float64 `mapstructure:"drag_x" toml:"drag_x"`
	DragY    float64 `mapstructure:"drag_y" toml:"drag_y"`
}

// DabConfig is one mask brush stamp.
type DabConfig struct {
	X        float64 `mapstructure:"x" toml:"x"`
	Y        float64 `mapstructure:"y" toml:"y"`
	Radius   float64 `mapstructure:"radius" toml:"radius" validate:"gt=0"`
	Value    float64 `mapstructure:"value" toml:"value" validate:"gte=0,lte=1"`
	Hardness float64 `mapstructure:"hardness" toml:"hardness" validate:"gte=0,lte=1"`
	Erase    bool    `mapstructure:"erase" toml:"erase"`
}

func defaultConfig() Config {
	return Config{
		Input:      "input.jpg",
		Output:     "output.png",
		MaxDisplay: 1280,
		LogLevel:   "info",
		Effects:    EffectsConfig{PrivacyBlur: 100},
	}
}

// topLevelKeys are overridable by flags and RETOUCH_* variables.
var topLevelKeys = map[string]string{
	"input":           "input",
	"output":          "output",
	"preview":         "preview",
	"landmarks":       "landmarks",
	"canonical":       "canonical",
	"max_display":     "max-display",
	"workers":         "workers",
	"log_level":       "log-level",
	"log_file":        "log-file",
	"texture_falloff": "texture-falloff",
}

// options is what the command line asked for besides the session itself.
type options struct {
	configPath string
	initPath   string
}

// loadConfig resolves the session from, lowest priority first: built-in
// defaults, the TOML session file, RETOUCH_* environment variables (also
// read from a .env file) and command-line flags.
func loadConfig(args []string) (*Config, options, error) {
	var opts options
	def := defaultConfig()

	fs := pflag.NewFlagSet("retouch", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "TOML session file")
	fs.StringVar(&opts.initPath, "init", "", "write a default session file to this path and exit")
	fs.StringP("input", "i", def.Input, "source image (png, jpeg, bmp, tiff, webp)")
	fs.StringP("output", "o", def.Output, "full resolution PNG output")
	fs.String("preview", "", "optional display resolution PNG preview")
	fs.String("landmarks", "", "face landmark JSON from an external detector")
	fs.Bool("canonical", false, "use a synthetic frontal face when no landmarks are given")
	fs.Int("max-display", def.MaxDisplay, "longest side of the editing preview (0 edits at full resolution)")
	fs.Int("workers", 0, "worker goroutines (0 uses GOMAXPROCS)")
	fs.String("log-level", def.LogLevel, "debug, info, warn or error")
	fs.String("log-file", "", "also write logs to this rotating file")
	fs.Float64("texture-falloff", 0, "enable texture-preserving liquify with this falloff in pixels")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, opts, errHelp
		}
		return nil, opts, err
	}
	if opts.initPath != "" {
		return nil, opts, nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, opts, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("RETOUCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("input", def.Input)
	v.SetDefault("output", def.Output)
	v.SetDefault("max_display", def.MaxDisplay)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("effects.privacy_blur", def.Effects.PrivacyBlur)
	for key, flag := range topLevelKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, opts, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if opts.configPath != "" {
		v.SetConfigFile(opts.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, opts, fmt.Errorf("read session file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, opts, fmt.Errorf("decode session: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, opts, fmt.Errorf("invalid session: %w", err)
	}
	return &cfg, opts, nil
}

// writeDefaultConfig writes the default session file to path. It refuses
// to overwrite an existing file.
func writeDefaultConfig(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	cfg := defaultConfig()
	if err := toml.NewEncoder(f).Encode(&cfg); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return nil
}

// adjustments maps the sliders onto retouch keys.
func (c *Config) adjustments() retouch.Adjustments {
	f, b := c.Face, c.Body
	return retouch.Adjustments{
		retouch.SmallFace:      f.SmallFace,
		retouch.SlimJaw:        f.SlimJaw,
		retouch.JawSmooth:      f.JawSmooth,
		retouch.ChinLength:     f.ChinLength,
		retouch.ForeheadHeight: f.ForeheadHeight,
		retouch.Cheekbone:      f.Cheekbone,
		retouch.EyeSize:        f.EyeSize,
		retouch.EyeDistance:    f.EyeDistance,
		retouch.EyeTilt:        f.EyeTilt,
		retouch.EyelidLift:     f.EyelidLift,
		retouch.BrowHeight:     f.BrowHeight,
		retouch.NoseWidth:      f.NoseWidth,
		retouch.NoseLength:     f.NoseLength,
		retouch.LipFullness:    f.LipFullness,
		retouch.MouthWidth:     f.MouthWidth,
		retouch.Smile:          f.Smile,
		retouch.Chest:          b.Chest,
		retouch.Waist:          b.Waist,
		retouch.Thigh:          b.Thigh,
	}
}

// anchors returns the configured anchors scaled into display space.
func (c *Config) anchors(scale float64) map[retouch.AnchorName]retouch.Point {
	out := map[retouch.AnchorName]retouch.Point{}
	for name, xy := range map[retouch.AnchorName][]float64{
		retouch.AnchorChest: c.Body.ChestAnchor,
		retouch.AnchorWaist: c.Body.WaistAnchor,
		retouch.AnchorThigh: c.Body.ThighAnchor,
	} {
		if len(xy) == 2 {
			out[name] = retouch.Pt(xy[0]*scale, xy[1]*scale)
		}
	}
	return out
}

func (c *Config) tone() retouch.Tone {
	return retouch.Tone{
		Exposure:   c.Tone.Exposure,
		Brightness: c.Tone.Brightness,
		Contrast:   c.Tone.Contrast,
		Saturation: c.Tone.Saturation,
		Warmth:     c.Tone.Warmth,
	}
}

func (c *Config) filter() retouch.Filter {
	return retouch.Filter{Preset: c.Filter.Preset, Intensity: c.Filter.Intensity}
}

// strokes converts the liquify strokes into display space.
func (c *Config) strokes(scale float64) ([]retouch.Stroke, error) {
	out := make([]retouch.Stroke, 0, len(c.Strokes))
	for i, s := range c.Strokes {
		mode, ok := retouch.ParseBrushMode(s.Mode)
		if !ok {
			return nil, fmt.Errorf("stroke %d: unknown mode %q", i, s.Mode)
		}
		out = append(out, retouch.Stroke{
			Center:   retouch.Pt(s.X*scale, s.Y*scale),
			Radius:   s.Radius * scale,
			Mode:     mode,
			Strength: s.Strength,
			Drag:     retouch.Pt(s.DragX*scale, s.DragY*scale),
		})
	}
	return out, nil
}

func dabs(in []DabConfig, scale float64) []retouch.Dab {
	out := make([]retouch.Dab, 0, len(in))
	for _, d := range in {
		out = append(out, retouch.Dab{
			Center:   retouch.Pt(d.X*scale, d.Y*scale),
			Radius:   d.Radius * scale,
			Value:    float32(d.Value),
			Hardness: d.Hardness,
			Erase:    d.Erase,
		})
	}
	return out
}
