package jpegenc

import (
	"testing"

	"github.com/you/pngjpeg/pixel"
)

func TestWalkSegmentsOrder(t *testing.T) {
	img := solidImage(16, 16, pixel.Pixel{R: 10, G: 20, B: 30})
	data, err := Encode(img, 80)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	segs, err := WalkSegments(data)
	if err != nil {
		t.Fatalf("WalkSegments: %v", err)
	}

	wantOrder := []uint16{markerAPP0, markerDQT, markerDQT, markerSOF0,
		markerDHT, markerDHT, markerDHT, markerDHT, markerSOS, 0, markerEOI}
	if len(segs) != len(wantOrder) {
		t.Fatalf("got %d segments, want %d: %+v", len(segs), len(wantOrder), segs)
	}
	for i, want := range wantOrder {
		if segs[i].Marker != want {
			t.Fatalf("segment %d: marker = 0x%04X, want 0x%04X", i, segs[i].Marker, want)
		}
	}
	// The synthetic entropy-data segment (marker 0) must be non-empty.
	if segs[9].Length == 0 {
		t.Fatalf("entropy-coded segment reported zero length")
	}
}

func TestWalkSegmentsRejectsMissingSOI(t *testing.T) {
	if _, err := WalkSegments([]byte{0x00, 0x00}); err == nil {
		t.Fatalf("expected error for missing SOI")
	}
}
