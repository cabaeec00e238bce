package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/p6screen"
	"github.com/bodgit/p6screen/screen"
	"github.com/urfave/cli/v2"
)

const defaultDB = "p6screen.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var screenFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Value:   screen.FourColor.String(),
		Usage:   "bitmap mode, \"4color\" (SCREEN 3) or \"mono\" (SCREEN 4)",
	},
	&cli.StringFlag{
		Name:    "colorset",
		Aliases: []string{"c"},
		Value:   screen.ColorSetA.String(),
		Usage:   "color set for 4color mode, \"a\" or \"b\"",
	},
	&cli.IntFlag{
		Name:  "width",
		Value: screen.MaxWidth,
		Usage: "expected source image width",
	},
	&cli.IntFlag{
		Name:  "height",
		Value: screen.MaxHeight,
		Usage: "expected source image height",
	},
}

var scaleFlag = &cli.BoolFlag{
	Name:  "scale",
	Usage: "scale source images to the expected size",
}

var storeFlag = &cli.BoolFlag{
	Name:  "store",
	Usage: "record converted screens in the database",
}

func flags(extra ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag{}, screenFlags...), extra...)
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func options(c *cli.Context) (screen.Options, error) {
	mode, err := screen.ParseMode(c.String("mode"))
	if err != nil {
		return screen.Options{}, err
	}

	opts := screen.Options{
		Mode:   mode,
		Width:  c.Int("width"),
		Height: c.Int("height"),
	}

	if mode == screen.FourColor {
		if opts.ColorSet, err = screen.ParseColorSet(c.String("colorset")); err != nil {
			return screen.Options{}, err
		}
	}

	return opts, nil
}

func run(c *cli.Context, nargs int, f func(*p6screen.Converter) error) error {
	if c.NArg() < nargs {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	opts, err := options(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var db *p6screen.ScreenDB
	if c.Bool("store") {
		if db, err = p6screen.NewScreenDB(c.String("db")); err != nil {
			return cli.NewExitError(err, 1)
		}
		defer db.Close()
	}

	conv, err := p6screen.New(opts, db, newLogger(c))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	conv.Scale = c.Bool("scale")

	if err := f(conv); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "p6screen"
	app.Usage = "PC-6001 SCREEN 3/4 bitmap converter"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"P6SCREEN_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert an image to bitmap data",
			Description: "The image must be exactly the expected size unless --scale is given.",
			ArgsUsage:   "IMAGE OUTPUT",
			Flags:       flags(scaleFlag, storeFlag),
			Action: func(c *cli.Context) error {
				return run(c, 2, func(conv *p6screen.Converter) error {
					return conv.Convert(c.Args().Get(0), c.Args().Get(1))
				})
			},
		},
		{
			Name:        "scan",
			Usage:       "Convert every image in a directory",
			Description: "Each image is written alongside the original with a " + p6screen.Ext + " extension.",
			ArgsUsage:   "DIRECTORY",
			Flags:       flags(scaleFlag, storeFlag),
			Action: func(c *cli.Context) error {
				return run(c, 1, func(conv *p6screen.Converter) error {
					return conv.Scan(c.Args().First())
				})
			},
		},
		{
			Name:        "inspect",
			Usage:       "Compare how well an image suits each color set",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags:       flags(scaleFlag),
			Action: func(c *cli.Context) error {
				return run(c, 1, func(conv *p6screen.Converter) error {
					r, err := conv.Inspect(c.Args().First())
					if err != nil {
						return err
					}
					fmt.Printf("Size:     %dx%d\n", r.Width, r.Height)
					for i, d := range r.Dominant {
						fmt.Printf("Color %d:  #%02x%02x%02x\n", i, d.R, d.G, d.B)
					}
					for _, cs := range screen.ColorSets() {
						fmt.Printf("Error %s:  %d\n", cs, r.Error[cs])
					}
					fmt.Printf("Best:     %s\n", r.Best)
					return nil
				})
			},
		},
		{
			Name:        "preview",
			Usage:       "Render bitmap data as a PNG image",
			Description: "",
			ArgsUsage:   "BITMAP OUTPUT",
			Flags:       flags(),
			Action: func(c *cli.Context) error {
				return run(c, 2, func(conv *p6screen.Converter) error {
					return conv.Preview(c.Args().Get(0), c.Args().Get(1))
				})
			},
		},
		{
			Name:        "export",
			Usage:       "Write a stored screen to a file",
			Description: "",
			ArgsUsage:   "NAME OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := p6screen.NewScreenDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				if err := db.Export(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List stored screens",
			Description: "",
			Action: func(c *cli.Context) error {
				db, err := p6screen.NewScreenDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				names, err := db.Names()
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
