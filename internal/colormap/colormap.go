package colormap

import (
	"image/color"
	"math"
	"strings"
)

type Name string

const (
	Viridis Name = "viridis"
	Magma   Name = "magma"
	Gray    Name = "gray"
	Hot     Name = "hot"
)

// Names lists every supported colormap in a stable order.
func Names() []string {
	return []string{string(Viridis), string(Magma), string(Gray), string(Hot)}
}

// Normalize maps s onto a known colormap, falling back to Viridis.
func Normalize(s string) Name {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "magma":
		return Magma
	case "gray", "grey", "greys":
		return Gray
	case "hot":
		return Hot
	default:
		return Viridis
	}
}

// Known reports whether s names a colormap without falling back.
func Known(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return false
	}
	return v == "viridis" || Normalize(v) != Viridis
}

// Stops returns the evenly spaced colour samples of the ramp.
func Stops(n Name) []color.NRGBA {
	switch n {
	case Magma:
		return []color.NRGBA{
			hex(0x000004), hex(0x140e36), hex(0x3b0f70), hex(0x641a80),
			hex(0x8c2981), hex(0xb73779), hex(0xde4968), hex(0xf7705c),
			hex(0xfe9f6d), hex(0xfecf92), hex(0xfcfdbf),
		}
	case Gray:
		return []color.NRGBA{hex(0x000000), hex(0xffffff)}
	case Hot:
		return []color.NRGBA{hex(0x0b0000), hex(0xff0000), hex(0xffff00), hex(0xffffff)}
	default:
		return []color.NRGBA{
			hex(0x440154), hex(0x482475), hex(0x414487), hex(0x355f8d),
			hex(0x2a788e), hex(0x21918c), hex(0x22a884), hex(0x44bf70),
			hex(0x7ad151), hex(0xbddf26), hex(0xfde725),
		}
	}
}

// At samples the ramp at t in [0,1]; values outside are clamped.
func At(n Name, t float64) color.NRGBA {
	stops := Stops(n)
	if math.IsNaN(t) || t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	pos := t * float64(len(stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := stops[i], stops[i+1]
	return color.NRGBA{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 0xff,
	}
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

func hex(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
