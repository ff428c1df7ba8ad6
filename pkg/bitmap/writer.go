package bitmap

import (
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// Encode writes the bitmap. The size and offset fields are recomputed from
// Extra and Pixels; every other header field is written as is.
func (img *Image) Encode(w io.Writer) error {
	h := img.Header
	h.ID = [2]byte{Magic[0], Magic[1]}
	h.BitsPerPixel = BitsPerPixel
	if h.InfoSize == 0 {
		h.InfoSize = InfoHeaderSize
	}
	if h.Planes == 0 {
		h.Planes = 1
	}
	h.PixelOffset = uint32(HeaderSize + len(img.Extra))
	h.ImageSize = uint32(len(img.Pixels))
	h.FileSize = h.PixelOffset + h.ImageSize

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(img.Extra); err != nil {
		return fmt.Errorf("failed to write palette: %w", err)
	}
	if _, err := w.Write(img.Pixels); err != nil {
		return fmt.Errorf("failed to write pixel data: %w", err)
	}
	return nil
}

// Save writes img to path through a temporary file in the same directory,
// so path never holds a partially written bitmap.
func Save(fs afero.Fs, path string, img *Image) (err error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, fs.Remove(tmp.Name()))
		}
	}()

	if err := img.Encode(tmp); err != nil {
		return multierr.Append(fmt.Errorf("failed to write %s: %w", path, err), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := fs.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move bitmap into place at %s: %w", path, err)
	}
	return nil
}

// NewGray builds an 8-bit bitmap with a 256-level grayscale palette around
// pixels, which must hold PixelSize(width, height) bytes of bottom-up rows.
func NewGray(width, height int, pixels []byte) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBitmap, width, height)
	}
	if want := PixelSize(width, height); len(pixels) != want {
		return nil, fmt.Errorf("%w: %dx%d needs %d pixel bytes, got %d",
			ErrInvalidBitmap, width, height, want, len(pixels))
	}

	// BGRX entries
	palette := make([]byte, 256*4)
	for i := 0; i < 256; i++ {
		palette[4*i] = byte(i)
		palette[4*i+1] = byte(i)
		palette[4*i+2] = byte(i)
	}

	return &Image{
		Header: Header{
			ID:           [2]byte{Magic[0], Magic[1]},
			InfoSize:     InfoHeaderSize,
			Width:        int32(width),
			Height:       int32(height),
			Planes:       1,
			BitsPerPixel: BitsPerPixel,
			ColorsUsed:   256,
		},
		Extra:  palette,
		Pixels: pixels,
	}, nil
}
