package p6screen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/p6screen/screen"
)

const (
	// Ext is appended to the base name of each image converted by Scan
	Ext = ".bin"

	scanWorkers = 10
)

var imageExts = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".webp": {},
}

func isImage(file string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(file))]
	return ok
}

type job struct {
	in, out string
}

func outputName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + Ext
}

func (c *Converter) findImages(ctx context.Context, base string) (<-chan job, <-chan error) {
	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)

		// Output name to the source that claimed it
		claimed := make(map[string]string)

		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			j := job{in: file, out: outputName(file)}
			if other, ok := claimed[j.out]; ok {
				c.logger.Printf("Skipping \"%s\", \"%s\" is already written from \"%s\"\n", file, j.out, other)
				return nil
			}
			claimed[j.out] = file

			select {
			case out <- j:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc
}

func (c *Converter) imageWorker(ctx context.Context, in <-chan job) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for j := range in {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := c.Convert(j.in, j.out); err != nil {
				var de *screen.DimensionError
				if errors.As(err, &de) {
					c.logger.Printf("Skipping %s\n", err)
					continue
				}
				errc <- err
				return
			}
		}
	}()
	return errc
}

// Wait for every stage to finish, cancelling the rest on the first error
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error)
	forward := func(c <-chan error) {
		defer wg.Done()
		for err := range c {
			out <- err
		}
	}

	wg.Add(len(cs))
	for _, c := range cs {
		go forward(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and converts every image found into a sibling file with
// the Ext extension. Images that are not the working size, or whose output
// name is already taken by another image, are logged and skipped. The first
// error stops the walk and Scan returns it once every conversion in progress
// has finished.
func (c *Converter) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs, walkErrc := c.findImages(ctx, dir)

	errcList := []<-chan error{walkErrc}
	for i := 0; i < scanWorkers; i++ {
		errcList = append(errcList, c.imageWorker(ctx, jobs))
	}

	return waitForPipeline(cancel, errcList...)
}
