package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeDownscalesLargePNG(t *testing.T) {
	photo, err := Normalize(encodePNG(t, 2048, 512))
	require.NoError(t, err)
	assert.Equal(t, 1024, photo.Width)
	assert.Equal(t, 256, photo.Height)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(photo.Data))
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Width)
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	photo, err := Normalize(encodePNG(t, 40, 30))
	require.NoError(t, err)
	assert.Equal(t, 40, photo.Width)
	assert.Equal(t, 30, photo.Height)
}

func TestNormalizeRejectsNonImages(t *testing.T) {
	_, err := Normalize([]byte("%PDF-1.4 not an image"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = Normalize(nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestFit(t *testing.T) {
	w, h := fit(3000, 1, 1024)
	assert.Equal(t, 1024, w)
	assert.Equal(t, 1, h)

	w, h = fit(500, 2000, 1000)
	assert.Equal(t, 250, w)
	assert.Equal(t, 1000, h)
}

// pngHeader returns a PNG signature and IHDR chunk declaring w×h pixels
// with no image data behind it.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestNormalizeRejectsOversizedDimensions(t *testing.T) {
	_, err := Normalize(pngHeader(60000, 60000))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Contains(t, err.Error(), "image too large")
}

func TestNormalizePixelCapIsInclusive(t *testing.T) {
	_, err := Normalize(pngHeader(8000, 5000))
	require.Error(t, err, "header only, so decoding still fails")
	assert.NotContains(t, err.Error(), "image too large")
}
