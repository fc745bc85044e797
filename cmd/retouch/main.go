// Command retouch applies a face and body retouching session to an image.
//
// Usage:
//
//	retouch --init session.toml          # write a default session file
//	retouch -c session.toml -i in.jpg -o out.png --landmarks face.json
//
// Edits are expressed in source pixels. They are replayed on a downscaled
// preview (written with --preview) and exported at full resolution.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gogpu/retouch"
	"github.com/gogpu/retouch/internal/landmarkfile"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, errHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "retouch: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, opts, err := loadConfig(args)
	if err != nil {
		return err
	}
	if opts.initPath != "" {
		if err := writeDefaultConfig(opts.initPath); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		fmt.Fprintf(stderr, "wrote default session to %s\n", opts.initPath)
		return nil
	}

	logger, closeLog := newLogger(cfg, stderr)
	defer closeLog()
	retouch.SetLogger(logger)

	src, err := retouch.LoadImage(cfg.Input)
	if err != nil {
		return err
	}

	var copts []retouch.CompositorOption
	if cfg.Workers > 0 {
		copts = append(copts, retouch.WithWorkers(cfg.Workers))
	}
	if cfg.TextureFalloff > 0 {
		copts = append(copts, retouch.WithTexturePreserve(cfg.TextureFalloff))
	}
	s := retouch.NewSession(src, cfg.MaxDisplay, copts...)
	defer s.Close()
	logger = logger.With("session", s.ID())

	if provider := landmarkProvider(cfg); provider != nil {
		if err := s.Detect(ctx, provider); err != nil {
			logger.Warn("continuing without face edits", "error", err)
		}
	}

	if err := applyEdits(s, cfg); err != nil {
		return err
	}

	if cfg.Preview != "" {
		if err := s.Render().SavePNG(cfg.Preview); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		logger.Info("preview written", "path", cfg.Preview,
			"width", s.Display().Width(), "height", s.Display().Height())
	}

	out, err := s.Export(ctx)
	if err != nil {
		return err
	}
	if err := out.SavePNG(cfg.Output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("output written", "path", cfg.Output, "width", out.Width(), "height", out.Height())
	return nil
}

// newLogger builds a text logger on stderr, teeing into a rotating file
// when log_file is set.
func newLogger(cfg *Config, stderr io.Writer) (*slog.Logger, func()) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	w := stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
			LocalTime:  true,
		}
		w = io.MultiWriter(stderr, file)
		closeFn = func() { _ = file.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn
}

func landmarkProvider(cfg *Config) retouch.LandmarkProvider {
	switch {
	case cfg.Landmarks != "":
		return landmarkfile.NewProvider(cfg.Landmarks)
	case cfg.Canonical:
		return retouch.LandmarkProviderFunc(canonicalFace)
	default:
		return nil
	}
}

// canonicalFace places a synthetic frontal face in the middle of img.
func canonicalFace(_ context.Context, img *retouch.Pixmap) (retouch.Landmarks, error) {
	w, h := float64(img.Width()), float64(img.Height())
	width := 0.4 * math.Min(w, h)
	return retouch.CanonicalLandmarks(retouch.Pt(w/2, h/2), width), nil
}

// applyEdits replays the configured edits on the session, converting source
// coordinates into display space.
func applyEdits(s *retouch.Session, cfg *Config) error {
	scale := 1 / s.Ratio()

	for key, v := range cfg.adjustments() {
		if v != 0 {
			s.SetAdjustment(key, v)
		}
	}
	for name, p := range cfg.anchors(scale) {
		s.SetAnchor(name, p)
	}
	s.SetTone(cfg.tone())
	s.SetFilter(cfg.filter())
	s.SetSkinSmooth(cfg.Effects.SkinSmooth)
	s.SetPrivacyBlur(cfg.Effects.PrivacyBlur)
	s.SetVignette(cfg.Effects.Vignette)

	strokes, err := cfg.strokes(scale)
	if err != nil {
		return err
	}
	if len(strokes) > 0 {
		s.Liquify(strokes...)
	}
	if d := dabs(cfg.SkinDabs, scale); len(d) > 0 {
		s.PaintSkin(d...)
	}
	if d := dabs(cfg.PrivacyDabs, scale); len(d) > 0 {
		s.PaintPrivacy(d...)
	}
	return nil
}
