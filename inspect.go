package p6screen

import (
	"image/color"

	"github.com/bodgit/p6screen/screen"
	"github.com/ericpauley/go-quantize/quantize"
)

const dominantColors = 4

// Report describes how well a source image suits each SCREEN 3 color set.
type Report struct {
	Width, Height int

	// Dominant colors of the source by median cut
	Dominant []screen.RGB

	// Summed squared error of a four color encode with each color set
	Error map[screen.ColorSet]uint64

	// Color set with the lowest error
	Best screen.ColorSet
}

// Inspect decodes file and reports its dominant colors and the quantization
// error under each color set.
func (c *Converter) Inspect(file string) (*Report, error) {
	m, _, err := decodeFile(file)
	if err != nil {
		return nil, err
	}
	m = c.prepare(m)

	r := Report{
		Width:  m.Bounds().Dx(),
		Height: m.Bounds().Dy(),
		Error:  make(map[screen.ColorSet]uint64),
	}

	q := quantize.MedianCutQuantizer{}
	for _, pc := range q.Quantize(make(color.Palette, 0, dominantColors), m) {
		n := color.NRGBAModel.Convert(pc).(color.NRGBA)
		r.Dominant = append(r.Dominant, screen.RGB{R: n.R, G: n.G, B: n.B})
	}

	pix, w, h := screen.Flatten(m)
	for _, cs := range screen.ColorSets() {
		sum, err := screen.QuantizationError(pix, w, h, cs)
		if err != nil {
			return nil, err
		}
		r.Error[cs] = sum
		if r.Best == 0 || sum < r.Error[r.Best] {
			r.Best = cs
		}
	}
	c.logger.Printf("Inspected \"%s\", %dx%d\n", file, w, h)

	return &r, nil
}
