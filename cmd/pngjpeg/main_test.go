package main

import (
	"bytes"
	stdimage "image"
	stdcolor "image/color"
	stdjpeg "image/jpeg"
	stdpng "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/xfmoulet/qoi"

	"github.com/you/pngjpeg/internal/png"
)

func writeReferencePNG(t *testing.T, path string, w, h int, fill func(x, y int) stdcolor.RGBA) {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill(x, y))
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := stdpng.Encode(f, img); err != nil {
		t.Fatalf("reference PNG encode: %v", err)
	}
}

func TestDeriveOutputPath(t *testing.T) {
	cases := map[string]string{
		"photo.png":    "photo.jpg",
		"/tmp/a/b.PNG": "/tmp/a/b.jpg",
		"noext":        "noext.jpg",
		"a.b.png":      "a.b.jpg",
	}
	for in, want := range cases {
		if got := deriveOutputPath(in); got != want {
			t.Fatalf("deriveOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTranscodeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.png")
	outPath := filepath.Join(dir, "out.jpg")

	w, h := 20, 20
	writeReferencePNG(t, inPath, w, h, func(x, y int) stdcolor.RGBA {
		return stdcolor.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255}
	})

	if err := transcode(inPath, outPath, 85, false); err != nil {
		t.Fatalf("transcode: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	img, err := stdjpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("stdlib JPEG decode of our output failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		t.Fatalf("decoded dims = %dx%d, want %dx%d", b.Dx(), b.Dy(), w, h)
	}
}

// TestIndependentGroundTruthViaQOI cross-checks the PNG-decoded pixel
// buffer against an independently QOI-encoded/decoded copy of the same
// source image, giving a ground truth for the pixel container that does
// not depend on this module's own PNG decoder.
func TestIndependentGroundTruthViaQOI(t *testing.T) {
	w, h := 12, 9
	ref := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ref.SetRGBA(x, y, stdcolor.RGBA{R: uint8(x * 19), G: uint8(y * 23), B: uint8((x ^ y) * 5), A: 255})
		}
	}

	var qoiBuf bytes.Buffer
	if err := qoi.Encode(&qoiBuf, ref); err != nil {
		t.Fatalf("qoi encode: %v", err)
	}
	qoiImg, err := qoi.Decode(bytes.NewReader(qoiBuf.Bytes()))
	if err != nil {
		t.Fatalf("qoi decode: %v", err)
	}

	var pngBuf bytes.Buffer
	if err := stdpng.Encode(&pngBuf, ref); err != nil {
		t.Fatalf("reference PNG encode: %v", err)
	}
	ourImg, err := png.Decode(pngBuf.Bytes())
	if err != nil {
		t.Fatalf("our PNG decode: %v", err)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			wr, wg, wb, _ := qoiImg.At(x, y).RGBA()
			p, _ := ourImg.At(uint32(x), uint32(y))
			if p.R != uint8(wr>>8) || p.G != uint8(wg>>8) || p.B != uint8(wb>>8) {
				t.Fatalf("pixel (%d,%d) mismatch: ours=%v qoi-ground-truth R=%d G=%d B=%d", x, y, p, uint8(wr>>8), uint8(wg>>8), uint8(wb>>8))
			}
		}
	}
}

func TestTranscodeVerboseSucceeds(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.png")
	outPath := filepath.Join(dir, "out.jpg")

	writeReferencePNG(t, inPath, 12, 12, func(x, y int) stdcolor.RGBA {
		return stdcolor.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 60, A: 255}
	})
	if err := transcode(inPath, outPath, 75, true); err != nil {
		t.Fatalf("transcode with verbose=true: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

func TestQualityOutOfRange(t *testing.T) {
	if code := run([]string{"--quality", "0", "x.png"}); code == 0 {
		t.Fatalf("expected non-zero exit for quality=0")
	}
	if code := run([]string{"--quality", "101", "x.png"}); code == 0 {
		t.Fatalf("expected non-zero exit for quality=101")
	}
}

func TestVersionFlag(t *testing.T) {
	if code := run([]string{"--version"}); code != 0 {
		t.Fatalf("--version exited %d, want 0", code)
	}
}

func TestInterlacedPNGFailsWithoutWritingOutput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "interlaced.png")
	outPath := filepath.Join(dir, "interlaced.jpg")

	writeReferencePNG(t, inPath, 4, 4, func(x, y int) stdcolor.RGBA { return stdcolor.RGBA{A: 255} })
	data, err := os.ReadFile(inPath)
	if err != nil {
		t.Fatal(err)
	}
	mutated := append([]byte(nil), data...)
	mutated[8+8+12] = 1 // flip IHDR's interlace byte
	if err := os.WriteFile(inPath, mutated, 0o644); err != nil {
		t.Fatal(err)
	}

	err = transcode(inPath, outPath, 85, false)
	if err == nil {
		t.Fatalf("expected transcode to fail on interlaced PNG")
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file to be written, but %s exists", outPath)
	}
}
