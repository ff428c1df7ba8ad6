package bitmap

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/spf13/afero"
	"golang.org/x/image/bmp"
)

// Image is a parsed bitmap: the fixed header, the bytes between the header
// and the pixel array (rest of the info header and the palette) kept
// verbatim, and the raw bottom-up pixel rows.
type Image struct {
	Header Header
	Extra  []byte
	Pixels []byte
}

// Decode parses a complete bitmap stream. Data after the pixel array is
// rejected.
func Decode(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read bitmap: %w", err)
	}

	// 1. Fixed header
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header",
			ErrInvalidBitmap, len(data), HeaderSize)
	}
	var h Header
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	if int(h.FileSize) != len(data) {
		return nil, fmt.Errorf("%w: header declares %d bytes, file has %d",
			ErrInvalidBitmap, h.FileSize, len(data))
	}

	// 2. Pixel array bounds
	size := int(h.ImageSize)
	expected := PixelSize(int(h.Width), int(h.Height))
	switch {
	case size == 0:
		size = expected
	case h.Compression == 0 && size != expected:
		return nil, fmt.Errorf("%w: picture size %d does not match %dx%d (%d bytes)",
			ErrInvalidBitmap, size, h.Width, h.Height, expected)
	}
	offset := int(h.PixelOffset)
	end := offset + size
	switch {
	case offset > len(data) || end > len(data):
		return nil, fmt.Errorf("%w: pixel data [%d, %d) beyond end of file (%d bytes)",
			ErrInvalidBitmap, offset, end, len(data))
	case end < len(data):
		return nil, fmt.Errorf("%w: %d bytes of trailing data after pixel data",
			ErrInvalidBitmap, len(data)-end)
	}

	return &Image{
		Header: h,
		Extra:  bytes.Clone(data[HeaderSize:offset]),
		Pixels: bytes.Clone(data[offset:end]),
	}, nil
}

// Load reads and decodes the bitmap at path.
func Load(fs afero.Fs, path string) (*Image, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory, not a file", ErrInvalidBitmap, path)
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decoded renders the bitmap through the standard bmp decoder, for previews
// and format conversion.
func (img *Image) Decoded() (image.Image, error) {
	var buf bytes.Buffer
	if err := img.Encode(&buf); err != nil {
		return nil, err
	}
	m, err := bmp.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bitmap: %w", err)
	}
	return m, nil
}
