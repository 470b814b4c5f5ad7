// Command pngjpeg converts a PNG image into a baseline JPEG using the
// from-scratch DEFLATE/PNG/JPEG codec cores in this module.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/you/pngjpeg/internal/jpegenc"
	"github.com/you/pngjpeg/internal/png"
	"github.com/you/pngjpeg/pixel"
)

// Version is the CLI's reported build identifier (spec.md §6.4).
const Version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pngjpeg", flag.ContinueOnError)
	quality := fs.Int("quality", 85, "JPEG quality, 1..100")
	verbose := fs.Bool("verbose", false, "print per-phase diagnostics to stderr")
	version := fs.Bool("version", false, "print version and exit")
	output := fs.String("o", "", "output JPEG path (default: input path with .jpg extension)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: pngjpeg [flags] <input.png>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *version {
		fmt.Printf("pngjpeg %s\n", Version)
		return 0
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	inputPath := fs.Arg(0)

	if *quality < 1 || *quality > 100 {
		fmt.Fprintf(os.Stderr, "pngjpeg: quality must be in [1,100], got %d\n", *quality)
		return 1
	}

	outputPath := *output
	if outputPath == "" {
		outputPath = deriveOutputPath(inputPath)
	}

	if err := transcode(inputPath, outputPath, *quality, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "pngjpeg: %v\n", err)
		return 1
	}
	return 0
}

// deriveOutputPath replaces the last extension with .jpg, or appends .jpg
// if the input has no extension.
func deriveOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return base + ".jpg"
}

func transcode(inputPath, outputPath string, quality int, verbose bool) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "pngjpeg: read %d bytes from %s\n", len(data), inputPath)
	}

	var img *pixel.Image
	if verbose {
		var trace *png.Trace
		img, trace, err = png.DecodeTrace(data)
		if err != nil {
			return fmt.Errorf("decoding PNG: %w", err)
		}
		for _, c := range trace.Chunks {
			fmt.Fprintf(os.Stderr, "pngjpeg: chunk %s (%d bytes)\n", c.Type, c.Length)
		}
		fmt.Fprintf(os.Stderr, "pngjpeg: IHDR %dx%d depth=%d colorType=%d\n",
			trace.IHDR.Width, trace.IHDR.Height, trace.IHDR.BitDepth, trace.IHDR.ColorType)
		fmt.Fprintf(os.Stderr, "pngjpeg: DEFLATE blocks decoded: %v\n", trace.BlockTypes)
	} else {
		img, err = png.Decode(data)
		if err != nil {
			return fmt.Errorf("decoding PNG: %w", err)
		}
	}

	out, err := jpegenc.Encode(img, quality)
	if err != nil {
		return fmt.Errorf("encoding JPEG: %w", err)
	}
	if verbose {
		segs, err := jpegenc.WalkSegments(out)
		if err != nil {
			return fmt.Errorf("walking encoded segments: %w", err)
		}
		for _, s := range segs {
			fmt.Fprintf(os.Stderr, "pngjpeg: segment 0x%04X (%d bytes)\n", s.Marker, s.Length)
		}
	}

	// Write to a temp file first and rename, so a failed write never leaves
	// a partial output file (spec.md §4.6).
	tmp := outputPath + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalizing %s: %w", outputPath, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "pngjpeg: wrote %s\n", outputPath)
	}
	return nil
}
