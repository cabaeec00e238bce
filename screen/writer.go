package screen

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

type encoder struct {
	pix     []byte
	width   int
	height  int
	stride  int
	palette Palette
}

func (e *encoder) at(x, y int) RGB {
	i := (y*e.width + x) * bytesPerSample
	return RGB{e.pix[i], e.pix[i+1], e.pix[i+2]}
}

// Pack one row of merged pixels, four 2-bit codes per byte
func (e *encoder) fourColorRow(dst []byte, y int) {
	merged := e.width / pixelsPerCode
	for x := 0; x < merged; x++ {
		c := merge(e.at(x*pixelsPerCode, y), e.at(x*pixelsPerCode+1, y))
		shift := uint(codesPerByte-1-x%codesPerByte) * bitsPerCode
		dst[x/codesPerByte] |= e.palette.Nearest(c) & 0x03 << shift
	}
}

// Pack one row of pixels, eight luma bits per byte
func (e *encoder) monochromeRow(dst []byte, y int) {
	for x := 0; x < e.width; x++ {
		if luma(e.at(x, y)) > lumaThreshold {
			dst[x/pixelsPerBit] |= 1 << uint(pixelsPerBit-1-x%pixelsPerBit)
		}
	}
}

func (e *encoder) encode(mode Mode) []byte {
	b := make([]byte, e.stride*e.height)
	for y := 0; y < e.height; y++ {
		row := b[y*e.stride : (y+1)*e.stride]
		switch mode {
		case FourColor:
			e.fourColorRow(row, y)
		case Monochrome:
			e.monochromeRow(row, y)
		}
	}
	return b
}

func checkBuffer(pix []byte, width, height int) error {
	if n := width * height * bytesPerSample; len(pix) != n {
		return fmt.Errorf("%w: %d bytes, expected %d", ErrBufferSize, len(pix), n)
	}
	return nil
}

// EncodeRGB packs a row-major buffer of 8-bit R, G, B samples into the
// bitmap layout selected by opts. The width and height must match the
// working size exactly; nothing is produced otherwise.
func EncodeRGB(pix []byte, width, height int, opts *Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	w, h := opts.Size()
	if width != w || height != h {
		return nil, &DimensionError{
			Width:          width,
			Height:         height,
			ExpectedWidth:  w,
			ExpectedHeight: h,
		}
	}
	if err := checkBuffer(pix, width, height); err != nil {
		return nil, err
	}

	e := encoder{
		pix:    pix,
		width:  width,
		height: height,
		stride: opts.Stride(),
	}
	if opts.Mode == FourColor {
		e.palette, _ = opts.ColorSet.Palette()
	}

	return e.encode(opts.Mode), nil
}

// Flatten converts m into a row-major buffer of 8-bit R, G, B samples.
// Alpha is discarded rather than composited.
func Flatten(m image.Image) ([]byte, int, int) {
	b := m.Bounds()
	pix := make([]byte, 0, b.Dx()*b.Dy()*bytesPerSample)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			pix = append(pix, c.R, c.G, c.B)
		}
	}
	return pix, b.Dx(), b.Dy()
}

// Encode writes the Image m to w in the bitmap layout selected by opts.
func Encode(w io.Writer, m image.Image, opts *Options) error {
	pix, width, height := Flatten(m)
	b, err := EncodeRGB(pix, width, height, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// QuantizationError returns the summed squared distance between every merged
// source pixel and the color it is encoded as under cs.
func QuantizationError(pix []byte, width, height int, cs ColorSet) (uint64, error) {
	p, err := cs.Palette()
	if err != nil {
		return 0, err
	}
	if width%pixelsPerCode != 0 {
		return 0, fmt.Errorf("%w: width %d must be even", ErrInvalidSize, width)
	}
	if err := checkBuffer(pix, width, height); err != nil {
		return 0, err
	}

	e := encoder{pix: pix, width: width, height: height}
	var sum uint64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x += pixelsPerCode {
			c := merge(e.at(x, y), e.at(x+1, y))
			sum += uint64(sqDist(c, p[p.Nearest(c)]))
		}
	}
	return sum, nil
}
