// Package bitmap reads and writes uncompressed 8-bit Windows bitmaps and
// exposes the header fields a shadow image repurposes for its metadata.
package bitmap

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic identifies a Windows bitmap.
	Magic = "BM"

	// HeaderSize is the file header plus the fixed part of the info header.
	HeaderSize = 54

	// InfoHeaderSize is the length of a BITMAPINFOHEADER.
	InfoHeaderSize = 40

	// BitsPerPixel is the only pixel depth supported.
	BitsPerPixel = 8
)

// ErrInvalidBitmap wraps every format violation found while decoding.
var ErrInvalidBitmap = errors.New("invalid bitmap")

// Header is the 54-byte bitmap header, in file order.
type Header struct {
	ID              [2]byte
	FileSize        uint32
	Reserved        [4]byte
	PixelOffset     uint32
	InfoSize        uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitsPerPixel    uint16
	Compression     uint32
	ImageSize       uint32
	XResolution     int32
	YResolution     int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// Validate checks the fields decoding depends on.
func (h *Header) Validate() error {
	if string(h.ID[:]) != Magic {
		return fmt.Errorf("%w: bad magic %q", ErrInvalidBitmap, h.ID[:])
	}
	if h.BitsPerPixel != BitsPerPixel {
		return fmt.Errorf("%w: %d bits per pixel, only %d is supported",
			ErrInvalidBitmap, h.BitsPerPixel, BitsPerPixel)
	}
	if h.PixelOffset < HeaderSize {
		return fmt.Errorf("%w: pixel offset %d inside header", ErrInvalidBitmap, h.PixelOffset)
	}
	if h.ImageSize == 0 && h.Compression != 0 {
		return fmt.Errorf("%w: compressed image without picture size", ErrInvalidBitmap)
	}
	return nil
}

// Seed is the diffusion seed stored in the first two reserved bytes.
func (h *Header) Seed() uint16 {
	return binary.LittleEndian.Uint16(h.Reserved[0:2])
}

// SetSeed stores the diffusion seed.
func (h *Header) SetSeed(seed uint16) {
	binary.LittleEndian.PutUint16(h.Reserved[0:2], seed)
}

// ShadowIndex is the shadow's x coordinate, stored in the last two reserved bytes.
func (h *Header) ShadowIndex() uint16 {
	return binary.LittleEndian.Uint16(h.Reserved[2:4])
}

// SetShadowIndex stores the shadow's x coordinate.
func (h *Header) SetShadowIndex(index uint16) {
	binary.LittleEndian.PutUint16(h.Reserved[2:4], index)
}

// SecretWidth and SecretHeight live in the resolution fields of a shadow.
func (h *Header) SecretWidth() int { return int(h.XResolution) }

func (h *Header) SecretHeight() int { return int(h.YResolution) }

// SetSecretSize records the dimensions of the hidden secret image.
func (h *Header) SetSecretSize(width, height int) {
	h.XResolution = int32(width)
	h.YResolution = int32(height)
}

// SecretSize is the pixel data length of the hidden secret image.
func (h *Header) SecretSize() int {
	return PixelSize(h.SecretWidth(), h.SecretHeight())
}

// Stride returns the length of one 8-bit pixel row, padded to 4 bytes.
func Stride(width int) int {
	return (width + 3) &^ 3
}

// PixelSize returns the pixel array length of a width x height 8-bit image.
// A negative height (top-down rows) counts the same as a positive one.
func PixelSize(width, height int) int {
	if width <= 0 || height == 0 {
		return 0
	}
	if height < 0 {
		height = -height
	}
	return Stride(width) * height
}
