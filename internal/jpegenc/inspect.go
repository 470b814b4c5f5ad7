package jpegenc

import (
	"encoding/binary"
	"fmt"
)

// SegmentInfo describes one marker segment found while walking an encoded
// JPEG stream, for --verbose diagnostics (spec.md §6.4). Grounded on the
// scanner/dumper segment-walk pattern shown by other_examples'
// garyhouston-jpegsegs, applied here read-only against this encoder's own
// output rather than a general-purpose JPEG file.
type SegmentInfo struct {
	Marker uint16
	Length int // payload length, excluding the 2-byte length field itself
}

// WalkSegments walks a JFIF stream produced by Encode and returns each
// marker segment's identity and payload size, in file order, including the
// entropy-coded scan data (reported as a synthetic segment following SOS).
func WalkSegments(data []byte) ([]SegmentInfo, error) {
	if len(data) < 2 || binary.BigEndian.Uint16(data) != markerSOI {
		return nil, fmt.Errorf("jpegenc: missing SOI marker")
	}
	var segs []SegmentInfo
	pos := 2
	for pos+2 <= len(data) {
		marker := binary.BigEndian.Uint16(data[pos:])
		pos += 2
		if marker == markerEOI {
			segs = append(segs, SegmentInfo{Marker: marker, Length: 0})
			return segs, nil
		}
		if pos+2 > len(data) {
			return nil, fmt.Errorf("jpegenc: truncated segment header at offset %d", pos)
		}
		length := int(binary.BigEndian.Uint16(data[pos:]))
		if length < 2 || pos+length > len(data) {
			return nil, fmt.Errorf("jpegenc: invalid segment length %d at offset %d", length, pos)
		}
		payloadLen := length - 2
		segs = append(segs, SegmentInfo{Marker: marker, Length: payloadLen})
		pos += length

		if marker == markerSOS {
			scanStart := pos
			for pos+1 < len(data) {
				if data[pos] == 0xFF && data[pos+1] != 0x00 {
					break
				}
				pos++
			}
			segs = append(segs, SegmentInfo{Marker: 0, Length: pos - scanStart})
		}
	}
	return nil, fmt.Errorf("jpegenc: missing EOI marker")
}
