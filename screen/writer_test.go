package screen

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = RGB{0x00, 0x00, 0x00}
	white = RGB{0xff, 0xff, 0xff}
	red   = RGB{0xff, 0x00, 0x00}
	green = RGB{0x00, 0xff, 0x00}
)

func makePixels(w, h int, f func(x, y int) RGB) []byte {
	pix := make([]byte, 0, w*h*bytesPerSample)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := f(x, y)
			pix = append(pix, c.R, c.G, c.B)
		}
	}
	return pix
}

func solid(c RGB) func(int, int) RGB {
	return func(int, int) RGB { return c }
}

func TestEncodeRGBScenarios(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		pixel func(x, y int) RGB
		row   func(i int) byte
	}{
		{
			"all red four color",
			Options{Mode: FourColor, ColorSet: ColorSetA},
			solid(red),
			func(int) byte { return 0xff },
		},
		{
			"all black monochrome",
			Options{Mode: Monochrome},
			solid(black),
			func(int) byte { return 0x00 },
		},
		{
			"all white monochrome",
			Options{Mode: Monochrome},
			solid(white),
			func(int) byte { return 0xff },
		},
		{
			"green and red halves",
			Options{Mode: FourColor, ColorSet: ColorSetA},
			func(x, _ int) RGB {
				if x < MaxWidth/2 {
					return green
				}
				return red
			},
			func(i int) byte {
				if i < 16 {
					return 0x00
				}
				return 0xff
			},
		},
		{
			"white is index 0 in color set b",
			Options{Mode: FourColor, ColorSet: ColorSetB},
			solid(white),
			func(int) byte { return 0x00 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := EncodeRGB(makePixels(MaxWidth, MaxHeight, tt.pixel), MaxWidth, MaxHeight, &tt.opts)
			require.NoError(t, err)
			require.Len(t, b, 6144)
			for y := 0; y < MaxHeight; y++ {
				for i := 0; i < 32; i++ {
					if !assert.Equal(t, tt.row(i), b[y*32+i], "row %d byte %d", y, i) {
						return
					}
				}
			}
		})
	}
}

func TestEncodeRGBFourColorPacking(t *testing.T) {
	opts := &Options{Mode: FourColor, ColorSet: ColorSetA, Width: 8, Height: 1}
	// Two source pixels per code: green, yellow, blue, red
	row := []RGB{
		{0x00, 0xff, 0x00}, {0x00, 0xff, 0x00},
		{0xff, 0xff, 0x00}, {0xff, 0xff, 0x00},
		{0x00, 0x00, 0xff}, {0x00, 0x00, 0xff},
		{0xff, 0x00, 0x00}, {0xff, 0x00, 0x00},
	}
	b, err := EncodeRGB(makePixels(8, 1, func(x, _ int) RGB { return row[x] }), 8, 1, opts)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1b}, b)
}

func TestEncodeRGBMergesBeforeMatching(t *testing.T) {
	opts := &Options{Mode: FourColor, ColorSet: ColorSetA, Width: 4, Height: 1}
	// Yellow and blue average to (127, 127, 127), nearest green, a color
	// neither source pixel maps to on its own
	row := []RGB{{0xff, 0xff, 0x00}, {0x00, 0x00, 0xff}, red, red}
	b, err := EncodeRGB(makePixels(4, 1, func(x, _ int) RGB { return row[x] }), 4, 1, opts)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x30}, b)
}

func TestEncodeRGBPartialGroups(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []byte
	}{
		{"four color", Options{Mode: FourColor, ColorSet: ColorSetA, Width: 10, Height: 2}, []byte{0xff, 0xc0, 0xff, 0xc0}},
		{"monochrome", Options{Mode: Monochrome, Width: 10, Height: 2}, []byte{0xff, 0xc0, 0xff, 0xc0}},
		{"monochrome single pixel", Options{Mode: Monochrome, Width: 1, Height: 1}, []byte{0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.opts.Size()
			c := red
			if tt.opts.Mode == Monochrome {
				c = white
			}
			b, err := EncodeRGB(makePixels(w, h, solid(c)), w, h, &tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestEncodeRGBMonochromeThreshold(t *testing.T) {
	opts := &Options{Mode: Monochrome, Width: 8, Height: 1}
	row := []RGB{
		{127, 127, 127}, {128, 128, 128},
		black, white,
		{0, 255, 0}, {255, 0, 0},
		{128, 128, 128}, {127, 127, 127},
	}
	b, err := EncodeRGB(makePixels(8, 1, func(x, _ int) RGB { return row[x] }), 8, 1, opts)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x5a}, b)
}

func TestEncodeRGBDimensionMismatch(t *testing.T) {
	opts := &Options{Mode: FourColor, ColorSet: ColorSetA}
	b, err := EncodeRGB(makePixels(100, 100, solid(red)), 100, 100, opts)
	assert.Nil(t, b)

	var de *DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, DimensionError{Width: 100, Height: 100, ExpectedWidth: 256, ExpectedHeight: 192}, *de)
}

func TestEncodeRGBShortBuffer(t *testing.T) {
	opts := &Options{Mode: Monochrome, Width: 8, Height: 2}
	_, err := EncodeRGB(make([]byte, 8*bytesPerSample), 8, 2, opts)
	assert.True(t, errors.Is(err, ErrBufferSize), "got %v", err)
	assert.EqualError(t, err, "screen: invalid pixel buffer: 24 bytes, expected 48")

	var de *DimensionError
	assert.False(t, errors.As(err, &de))
}

func TestEncodeRGBInvalidOptions(t *testing.T) {
	_, err := EncodeRGB(nil, 0, 0, &Options{Mode: FourColor})
	assert.True(t, errors.Is(err, ErrInvalidColorSet))
}

func TestEncode(t *testing.T) {
	m := image.NewNRGBA(image.Rect(10, 10, 26, 11))
	for x := 10; x < 26; x++ {
		m.SetNRGBA(x, 10, color.NRGBA{0xff, 0x00, 0x00, 0x00})
	}

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m, &Options{Mode: FourColor, ColorSet: ColorSetA, Width: 16, Height: 1}))
	assert.Equal(t, []byte{0xff, 0xff}, b.Bytes())

	b.Reset()
	err := Encode(b, m, &Options{Mode: FourColor, ColorSet: ColorSetA})
	var de *DimensionError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, 0, b.Len())
}

func TestFlatten(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 2, 1))
	m.SetRGBA(0, 0, color.RGBA{1, 2, 3, 0xff})
	m.SetRGBA(1, 0, color.RGBA{4, 5, 6, 0xff})

	pix, w, h := Flatten(m)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, pix)
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)
}

func TestQuantizationError(t *testing.T) {
	pix := makePixels(4, 1, func(x, _ int) RGB {
		if x < 2 {
			return red
		}
		return black
	})

	// Red is exact in A; black is 255² from green, blue and red
	sum, err := QuantizationError(pix, 4, 1, ColorSetA)
	require.NoError(t, err)
	assert.Equal(t, uint64(255*255), sum)

	// Orange is 128² from red in B, black is 255²+128² from orange
	sum, err = QuantizationError(pix, 4, 1, ColorSetB)
	require.NoError(t, err)
	assert.Equal(t, uint64(128*128+255*255+128*128), sum)

	_, err = QuantizationError(pix, 3, 1, ColorSetA)
	assert.True(t, errors.Is(err, ErrInvalidSize), "got %v", err)
	assert.EqualError(t, err, "screen: invalid size: width 3 must be even")

	_, err = QuantizationError(pix[:9], 4, 1, ColorSetA)
	assert.True(t, errors.Is(err, ErrBufferSize), "got %v", err)

	var de *DimensionError
	assert.False(t, errors.As(err, &de))
}
