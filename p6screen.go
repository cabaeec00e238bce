/*
Package p6screen is a library for converting images into PC-6001 SCREEN 3
and SCREEN 4 bitmap data.
*/
package p6screen

import (
	"log"

	"github.com/bodgit/p6screen/screen"
)

// Converter drives the decode, encode and write steps for one working size,
// mode and color set.
type Converter struct {
	opts   screen.Options
	db     *ScreenDB
	logger *log.Logger

	// Scale resamples source images to the working size rather than
	// rejecting them
	Scale bool
}

// New returns a Converter for the given options. The db may be nil in which
// case nothing is recorded.
func New(opts screen.Options, db *ScreenDB, logger *log.Logger) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Converter{
		opts:   opts,
		db:     db,
		logger: logger,
	}, nil
}

// Options returns the screen options used by the Converter
func (c *Converter) Options() screen.Options {
	return c.opts
}
