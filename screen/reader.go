package screen

import (
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	errNotEnough = errors.New("screen: not enough image data")
	errTooMuch   = errors.New("screen: too much image data")
)

var monochromePalette = color.Palette{color.Black, color.White}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r    io.Reader
	opts *Options

	palette color.Palette
	image   *image.Paletted

	tmp []byte
}

func (d *decoder) decode(r io.Reader, opts *Options, configOnly bool) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	d.r, d.opts = r, opts

	switch opts.Mode {
	case FourColor:
		p, _ := opts.ColorSet.Palette()
		d.palette = p.Colors()
	case Monochrome:
		d.palette = monochromePalette
	}

	d.tmp = make([]byte, opts.Len())
	if err := readFull(d.r, d.tmp); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	var extra [1]byte
	if n, err := d.r.Read(extra[:]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return err
		}
		return errTooMuch
	}

	if configOnly {
		return nil
	}

	w, h := d.bounds()
	d.image = image.NewPaletted(image.Rect(0, 0, w, h), d.palette)
	stride := opts.Stride()

	for y := 0; y < h; y++ {
		row := d.tmp[y*stride : (y+1)*stride]
		for x := 0; x < w; x++ {
			switch opts.Mode {
			case FourColor:
				shift := uint(codesPerByte-1-x%codesPerByte) * bitsPerCode
				d.image.SetColorIndex(x, y, row[x/codesPerByte]>>shift&0x03)
			case Monochrome:
				shift := uint(pixelsPerBit - 1 - x%pixelsPerBit)
				d.image.SetColorIndex(x, y, row[x/pixelsPerBit]>>shift&0x01)
			}
		}
	}

	return nil
}

// Hardware resolution of the decoded screen
func (d *decoder) bounds() (int, int) {
	w, h := d.opts.Size()
	if d.opts.Mode == FourColor {
		w /= pixelsPerCode
	}
	return w, h
}

// Decode reads a packed screen from r and returns it as an image.Image at
// hardware resolution.
func Decode(r io.Reader, opts *Options) (image.Image, error) {
	var d decoder
	if err := d.decode(r, opts, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and hardware dimensions of a packed
// screen without decoding the pixels.
func DecodeConfig(r io.Reader, opts *Options) (image.Config, error) {
	var d decoder
	if err := d.decode(r, opts, true); err != nil {
		return image.Config{}, err
	}
	w, h := d.bounds()
	return image.Config{
		ColorModel: d.palette,
		Width:      w,
		Height:     h,
	}, nil
}
