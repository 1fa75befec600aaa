// Package imaging normalizes item photos before they are stored.
package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"golang.org/x/image/draw"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

const (
	// MaxDimension bounds the longer edge of a stored photo.
	MaxDimension = 1024
	// Quality is the JPEG quality used for re-encoding.
	Quality = 85
	// OutputType is the content type of every normalized photo.
	OutputType = "image/jpeg"
	// Extension matches OutputType.
	Extension = ".jpg"
	// MaxPixels caps the decoded size of an upload.
	MaxPixels = 40_000_000
)

var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is a normalized image ready for upload.
type Photo struct {
	Data   []byte
	Width  int
	Height int
}

// Normalize sniffs data, rejects anything but JPEG or PNG, shrinks the
// picture to MaxDimension and re-encodes it as JPEG. Images declaring more
// than MaxPixels are refused before decoding. Transparent areas are
// flattened onto white.
func Normalize(data []byte) (*Photo, error) {
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("image is empty", nil)
	}
	sniffed := http.DetectContentType(data)
	if !acceptedTypes[sniffed] {
		return nil, apperrors.NewValidationError("unsupported image type",
			map[string]any{"content_type": sniffed, "accepted": []string{"image/jpeg", "image/png"}})
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewValidationError("image could not be decoded", map[string]any{"reason": err.Error()})
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, apperrors.NewValidationError("image too large",
			map[string]any{"width": cfg.Width, "height": cfg.Height, "max_pixels": MaxPixels})
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewValidationError("image could not be decoded", map[string]any{"reason": err.Error()})
	}

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Photo{Data: buf.Bytes(), Width: w, Height: h}, nil
}

// fit scales w×h down so the longer edge is at most limit, keeping the
// aspect ratio and never returning a zero edge.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
