package retouch

import (
	"github.com/gogpu/retouch/internal/filter"
)

// Tone holds the global tone sliders, each in -100..100 with zero meaning
// no change.
type Tone struct {
	Exposure   float64
	Brightness float64
	Contrast   float64
	Saturation float64
	Warmth     float64
}

// IsZero reports whether every slider is zero.
func (t Tone) IsZero() bool {
	return t == Tone{}
}

// matrix compiles the sliders into one color matrix, applied in the order
// exposure, brightness, contrast, saturation, warmth.
func (t Tone) matrix() filter.ColorMatrix {
	m := filter.Identity()
	if t.Exposure != 0 {
		m = m.Then(filter.Exposure(t.Exposure / 100))
	}
	if t.Brightness != 0 {
		m = m.Then(filter.Brightness(float32(t.Brightness / 100 * 64)))
	}
	if t.Contrast != 0 {
		m = m.Then(filter.Contrast(float32(1 + t.Contrast/100*0.5)))
	}
	if t.Saturation != 0 {
		m = m.Then(filter.Saturation(float32(1 + t.Saturation/100)))
	}
	if t.Warmth != 0 {
		m = m.Then(filter.Warmth(float32(t.Warmth / 100 * 30)))
	}
	return m
}

// Filter selects a stylistic preset and its intensity in 0..100.
type Filter struct {
	Preset    string
	Intensity float64
}

// Filter presets.
const (
	FilterNone  = string(filter.PresetNone)
	FilterMono  = string(filter.PresetMono)
	FilterSepia = string(filter.PresetSepia)
	FilterVivid = string(filter.PresetVivid)
	FilterFade  = string(filter.PresetFade)
	FilterCool  = string(filter.PresetCool)
)

// ValidFilter reports whether name is FilterNone or a known preset.
func ValidFilter(name string) bool {
	return filter.Preset(name).Valid()
}

// IsZero reports whether the filter leaves pixels unchanged.
func (f Filter) IsZero() bool {
	return f.Preset == FilterNone || f.Intensity <= 0
}

func (f Filter) matrix() filter.ColorMatrix {
	t := float32(min(f.Intensity, 100) / 100)
	return filter.Preset(f.Preset).Matrix().Lerp(t)
}
