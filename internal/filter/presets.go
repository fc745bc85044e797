package filter

// Preset names a stylistic filter.
type Preset string

// Stylistic presets.
const (
	PresetNone  Preset = ""
	PresetMono  Preset = "mono"
	PresetSepia Preset = "sepia"
	PresetVivid Preset = "vivid"
	PresetFade  Preset = "fade"
	PresetCool  Preset = "cool"
)

// Presets lists every known preset other than PresetNone.
var Presets = []Preset{PresetMono, PresetSepia, PresetVivid, PresetFade, PresetCool}

// Matrix returns the preset's color matrix at full intensity.
// Unknown presets return the identity.
func (p Preset) Matrix() ColorMatrix {
	switch p {
	case PresetMono:
		return Saturation(0)
	case PresetSepia:
		return Sepia()
	case PresetVivid:
		return Saturation(1.4).Then(Contrast(1.1))
	case PresetFade:
		return Contrast(0.8).Then(Brightness(18))
	case PresetCool:
		return Warmth(-20).Then(Saturation(0.9))
	default:
		return Identity()
	}
}

// Valid reports whether p is PresetNone or a known preset.
func (p Preset) Valid() bool {
	if p == PresetNone {
		return true
	}
	for _, q := range Presets {
		if p == q {
			return true
		}
	}
	return false
}
