package screen

import (
	"fmt"
	"image/color"
	"strings"
)

// RGB is an opaque 24-bit color. It implements the color.Color interface.
type RGB struct {
	R, G, B uint8
}

// RGBA returns the alpha-premultiplied 16-bit channels, alpha is always opaque
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Palette is a fixed set of four colors; the index of each entry is the
// 2-bit code written to the bitmap.
type Palette [codesPerByte]RGB

// Colors returns the palette as a color.Palette
func (p Palette) Colors() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}

// Nearest returns the index of the entry closest to c by squared Euclidean
// distance. Ties resolve to the lowest index.
func (p Palette) Nearest(c RGB) uint8 {
	var index uint8
	best := ^uint32(0)
	for i, e := range p {
		if d := sqDist(c, e); d < best {
			best, index = d, uint8(i)
		}
	}
	return index
}

func sqDiff(x, y uint8) uint32 {
	d := int32(x) - int32(y)
	return uint32(d * d)
}

func sqDist(c1, c2 RGB) uint32 {
	return sqDiff(c1.R, c2.R) + sqDiff(c1.G, c2.G) + sqDiff(c1.B, c2.B)
}

// ColorSet selects one of the two SCREEN 3 palettes.
type ColorSet int

const (
	// ColorSetA is green, yellow, blue and red
	ColorSetA ColorSet = iota + 1
	// ColorSetB is white, cyan, magenta and orange
	ColorSetB
)

var palettes = map[ColorSet]Palette{
	ColorSetA: {
		{0x00, 0xff, 0x00},
		{0xff, 0xff, 0x00},
		{0x00, 0x00, 0xff},
		{0xff, 0x00, 0x00},
	},
	ColorSetB: {
		{0xff, 0xff, 0xff},
		{0x00, 0xff, 0xff},
		{0xff, 0x00, 0xff},
		{0xff, 0x80, 0x00},
	},
}

// Palette returns the four colors of the color set
func (cs ColorSet) Palette() (Palette, error) {
	p, ok := palettes[cs]
	if !ok {
		return Palette{}, fmt.Errorf("%w: %v", ErrInvalidColorSet, cs)
	}
	return p, nil
}

func (cs ColorSet) String() string {
	switch cs {
	case ColorSetA:
		return "a"
	case ColorSetB:
		return "b"
	default:
		return fmt.Sprintf("ColorSet(%d)", int(cs))
	}
}

// ParseColorSet converts "a" or "b" into a ColorSet
func ParseColorSet(s string) (ColorSet, error) {
	switch strings.ToLower(s) {
	case "a", "1":
		return ColorSetA, nil
	case "b", "2":
		return ColorSetB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidColorSet, s)
}

// ColorSets lists every supported color set
func ColorSets() []ColorSet {
	return []ColorSet{ColorSetA, ColorSetB}
}

// Average two horizontally adjacent pixels, truncating
func merge(c1, c2 RGB) RGB {
	return RGB{
		uint8((uint16(c1.R) + uint16(c2.R)) / 2),
		uint8((uint16(c1.G) + uint16(c2.G)) / 2),
		uint8((uint16(c1.B) + uint16(c2.B)) / 2),
	}
}

func luma(c RGB) uint32 {
	return (lumaR*uint32(c.R) + lumaG*uint32(c.G) + lumaB*uint32(c.B)) / lumaDenom
}
