package p6screen

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/p6screen/screen"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DecodeError is returned when a source image cannot be read or decoded.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode \"%s\": %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// WriteError is returned when an output file cannot be written. Any partial
// output is removed.
type WriteError struct {
	File string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("unable to write \"%s\": %v", e.File, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func decodeFile(file string) (image.Image, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", &DecodeError{file, err}
	}
	defer f.Close()

	h := sha1.New()
	m, _, err := image.Decode(io.TeeReader(f, h))
	if err != nil {
		return nil, "", &DecodeError{file, err}
	}

	return m, fmt.Sprintf("%X", h.Sum(nil)), nil
}

func writeFile(file string, b []byte) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return &WriteError{file, err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{file, cerr}
		}
		if err != nil {
			os.Remove(file)
		}
	}()

	if _, err = f.Write(b); err != nil {
		return &WriteError{file, err}
	}

	return nil
}

func (c *Converter) prepare(m image.Image) image.Image {
	w, h := c.opts.Size()
	if !c.Scale || (m.Bounds().Dx() == w && m.Bounds().Dy() == h) {
		return m
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), m, m.Bounds(), draw.Src, nil)
	return dst
}

func (c *Converter) encode(file string) ([]byte, string, error) {
	m, sha, err := decodeFile(file)
	if err != nil {
		return nil, "", err
	}

	b := new(bytes.Buffer)
	if err := screen.Encode(b, c.prepare(m), &c.opts); err != nil {
		return nil, "", fmt.Errorf("%s: %w", file, err)
	}

	return b.Bytes(), sha, nil
}

// Convert decodes the image in, encodes it and writes the result to out. The
// output file is only created once the image has been encoded successfully.
func (c *Converter) Convert(in, out string) error {
	b, sha, err := c.encode(in)
	if err != nil {
		return err
	}

	if err := writeFile(out, b); err != nil {
		return err
	}
	c.logger.Printf("Converted \"%s\" to \"%s\", %d bytes\n", in, out, len(b))

	if c.db == nil {
		return nil
	}

	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	if _, err := c.db.Add(&Screen{
		Name:    name,
		SHA1:    sha,
		Options: c.opts,
		Data:    b,
	}); err != nil {
		return err
	}
	c.logger.Printf("Stored \"%s\" as \"%s\"\n", in, name)

	return nil
}

// Preview decodes the screen data in and writes it to out as a PNG image at
// hardware resolution.
func (c *Converter) Preview(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := screen.Decode(f, &c.opts)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	b := new(bytes.Buffer)
	if err := png.Encode(b, m); err != nil {
		return err
	}

	return writeFile(out, b.Bytes())
}
