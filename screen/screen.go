/*
Package screen implements an encoder and decoder for the PC-6001 SCREEN 3 and
SCREEN 4 bitmap layouts.

In FourColor mode (SCREEN 3) each hardware pixel is two source pixels wide, so
a 256 by 192 source becomes 128 by 192 hardware pixels. Every hardware pixel is
a 2-bit index into one of two fixed color sets and four pixels are packed per
byte with the leftmost pixel in the most significant bits.

In Monochrome mode (SCREEN 4) every source pixel is reduced to a single bit by
comparing its luma against a fixed threshold and eight pixels are packed per
byte, most significant bit first.

Rows are written top to bottom with no header, padding between rows or
attribute data, so the default 256 by 192 working size produces 6144 bytes in
either mode.
*/
package screen

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxWidth is the widest source image accepted
	MaxWidth = 256
	// MaxHeight is the tallest source image accepted
	MaxHeight = 192

	pixelsPerCode  = 2
	codesPerByte   = 4
	bitsPerCode    = 8 / codesPerByte
	pixelsPerBit   = 8
	lumaThreshold  = 127
	lumaR          = 299
	lumaG          = 587
	lumaB          = 114
	lumaDenom      = 1000
	defaultWidth   = MaxWidth
	defaultHeight  = MaxHeight
	bytesPerSample = 3
)

var (
	// ErrInvalidMode is returned for a mode outside FourColor and Monochrome
	ErrInvalidMode = errors.New("screen: invalid mode")
	// ErrInvalidColorSet is returned for a color set other than A or B
	ErrInvalidColorSet = errors.New("screen: invalid color set")
	// ErrInvalidSize is returned when the working size cannot be encoded
	ErrInvalidSize = errors.New("screen: invalid size")
	// ErrBufferSize is returned when a pixel buffer does not hold exactly
	// width by height samples
	ErrBufferSize = errors.New("screen: invalid pixel buffer")
)

// Mode selects the hardware bitmap layout.
type Mode int

const (
	// FourColor packs four 2-bit color codes per byte (SCREEN 3)
	FourColor Mode = iota + 1
	// Monochrome packs eight 1-bit luma decisions per byte (SCREEN 4)
	Monochrome
)

func (m Mode) String() string {
	switch m {
	case FourColor:
		return "4color"
	case Monochrome:
		return "mono"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "4color", "fourcolor", "screen3", "3":
		return FourColor, nil
	case "mono", "monochrome", "screen4", "4":
		return Monochrome, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Options is the validated encoder configuration.
type Options struct {
	Mode     Mode
	ColorSet ColorSet // Only used in FourColor mode

	// Expected source size; zero means the 256x192 default
	Width  int
	Height int
}

// Size returns the expected source width and height, applying defaults
func (o *Options) Size() (int, int) {
	w, h := o.Width, o.Height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	return w, h
}

// Validate checks the mode, color set and working size.
func (o *Options) Validate() error {
	switch o.Mode {
	case FourColor:
		if _, err := o.ColorSet.Palette(); err != nil {
			return err
		}
	case Monochrome:
	default:
		return fmt.Errorf("%w: %v", ErrInvalidMode, o.Mode)
	}

	w, h := o.Size()
	if w < 1 || w > MaxWidth {
		return fmt.Errorf("%w: width %d must be between 1 and %d", ErrInvalidSize, w, MaxWidth)
	}
	if h < 1 || h > MaxHeight {
		return fmt.Errorf("%w: height %d must be between 1 and %d", ErrInvalidSize, h, MaxHeight)
	}
	if o.Mode == FourColor && w%pixelsPerCode != 0 {
		return fmt.Errorf("%w: width %d must be even in %v mode", ErrInvalidSize, w, o.Mode)
	}
	return nil
}

// Stride returns the number of bytes in each encoded row
func (o *Options) Stride() int {
	w, _ := o.Size()
	if o.Mode == FourColor {
		w /= pixelsPerCode
		return (w + codesPerByte - 1) / codesPerByte
	}
	return (w + pixelsPerBit - 1) / pixelsPerBit
}

// Len returns the total number of bytes in an encoded screen
func (o *Options) Len() int {
	_, h := o.Size()
	return o.Stride() * h
}

// DimensionError is returned when a source image is not the expected size.
type DimensionError struct {
	Width, Height                 int
	ExpectedWidth, ExpectedHeight int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("screen: image is %dx%d, expected %dx%d", e.Width, e.Height, e.ExpectedWidth, e.ExpectedHeight)
}
