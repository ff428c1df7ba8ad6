package bitmap

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample is a 3x2 image: bottom row 10 20 30, top row 40 50 60, one pad byte per row.
func sample(t *testing.T) *Image {
	t.Helper()
	img, err := NewGray(3, 2, []byte{10, 20, 30, 0, 40, 50, 60, 0})
	require.NoError(t, err)
	return img
}

func encode(t *testing.T, img *Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, img.Encode(&buf))
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	img := sample(t)
	img.Header.SetSeed(0xBEEF)
	img.Header.SetShadowIndex(7)
	img.Header.SetSecretSize(5, 3)

	data := encode(t, img)
	require.Len(t, data, 1078+8)

	got, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, uint16(0xBEEF), got.Header.Seed())
	assert.Equal(t, uint16(7), got.Header.ShadowIndex())
	assert.Equal(t, 5, got.Header.SecretWidth())
	assert.Equal(t, 3, got.Header.SecretHeight())
	assert.Equal(t, 24, got.Header.SecretSize())
	assert.Equal(t, uint32(1078), got.Header.PixelOffset)
	assert.Equal(t, uint32(len(data)), got.Header.FileSize)

	if diff := cmp.Diff(img.Pixels, got.Pixels); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, img.Extra, got.Extra)

	// A decoded image encodes back to the same bytes.
	assert.Equal(t, data, encode(t, got))
}

func TestReservedLayout(t *testing.T) {
	var h Header
	h.SetSeed(0x1234)
	h.SetShadowIndex(0x0102)
	assert.Equal(t, [4]byte{0x34, 0x12, 0x02, 0x01}, h.Reserved)
}

func TestPixelSize(t *testing.T) {
	tests := []struct {
		width, height int
		stride, size  int
	}{
		{1, 1, 4, 4},
		{3, 2, 4, 8},
		{4, 4, 4, 16},
		{5, -3, 8, 24},
		{300, 300, 300, 90000},
		{0, 10, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.stride, Stride(tt.width), "Stride(%d)", tt.width)
		assert.Equal(t, tt.size, PixelSize(tt.width, tt.height), "PixelSize(%d, %d)", tt.width, tt.height)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid := encode(t, sample(t))

	mutate := func(f func(b []byte) []byte) []byte {
		return f(bytes.Clone(valid))
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", valid[:40]},
		{"bad magic", mutate(func(b []byte) []byte {
			b[0] = 'X'
			return b
		})},
		{"24 bits per pixel", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[28:30], 24)
			return b
		})},
		{"compressed without size", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[30:34], 1)
			binary.LittleEndian.PutUint32(b[34:38], 0)
			return b
		})},
		{"offset inside header", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[10:14], 20)
			return b
		})},
		{"file size mismatch", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[2:6], 99999)
			return b
		})},
		{"picture size mismatch", mutate(func(b []byte) []byte {
			// 4 extra bytes, declared in both sizes
			binary.LittleEndian.PutUint32(b[2:6], uint32(len(b)+4))
			binary.LittleEndian.PutUint32(b[34:38], 12)
			return append(b, 1, 2, 3, 4)
		})},
		{"truncated pixels", valid[:len(valid)-1]},
		{"trailing data", append(bytes.Clone(valid), 0xFF)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrInvalidBitmap)
		})
	}
}

func TestDecodeZeroImageSize(t *testing.T) {
	data := encode(t, sample(t))
	binary.LittleEndian.PutUint32(data[34:38], 0)

	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, img.Pixels, 8)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/covers/a.bmp", encode(t, sample(t)), 0644))

	img, err := Load(fs, "/covers/a.bmp")
	require.NoError(t, err)
	assert.Equal(t, int32(3), img.Header.Width)

	_, err = Load(fs, "/covers")
	assert.ErrorIs(t, err, ErrInvalidBitmap)

	_, err = Load(fs, "/covers/missing.bmp")
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	img := sample(t)

	require.NoError(t, Save(fs, "/out/secret.bmp", img))

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
	assert.Equal(t, "secret.bmp", entries[0].Name())

	got, err := Load(fs, "/out/secret.bmp")
	require.NoError(t, err)
	assert.Equal(t, img.Pixels, got.Pixels)
}

func TestSaveFailureKeepsDestination(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/out/secret.bmp", []byte("previous"), 0644))

	err := Save(afero.NewReadOnlyFs(mem), "/out/secret.bmp", sample(t))
	require.Error(t, err)

	data, err := afero.ReadFile(mem, "/out/secret.bmp")
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestNewGrayValidation(t *testing.T) {
	_, err := NewGray(3, 2, make([]byte, 6))
	assert.ErrorIs(t, err, ErrInvalidBitmap)

	_, err = NewGray(0, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidBitmap)
}

func TestDecoded(t *testing.T) {
	m, err := sample(t).Decoded()
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 3, 2), m.Bounds())

	p, ok := m.(*image.Paletted)
	require.True(t, ok, "got %T", m)

	// rows are stored bottom-up
	assert.Equal(t, uint8(40), p.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(30), p.ColorIndexAt(2, 1))
	assert.Equal(t, color.RGBA{R: 50, G: 50, B: 50, A: 0xFF}, m.At(1, 0))
}
