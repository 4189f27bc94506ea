// Package imaging handles the encoded-bytes boundary of the preprocessing
// core: decoding request payloads into gocv Mats and encoding processed
// Mats back into a caller-chosen format.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Decode converts an encoded byte stream into a BGR Mat. OpenCV's decoder
// is tried first; formats it was not built with (commonly TIFF on minimal
// installs) fall back to the Go image registry. The mime hint is advisory
// and only used in error messages.
func Decode(data []byte, mimeHint string) (gocv.Mat, error) {
	if len(data) == 0 {
		return gocv.NewMat(), fmt.Errorf("empty image payload")
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if err == nil {
		mat.Close()
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("decode image (%s): %w", hintOrUnknown(mimeHint), err)
	}
	return ImageToMat(img)
}

// Encode converts a Mat into an encoded byte stream. Accepted formats:
// png, jpeg/jpg, tiff/tif, bmp (bare names or image/* mime types).
func Encode(src gocv.Mat, format string) ([]byte, error) {
	if src.Empty() {
		return nil, fmt.Errorf("cannot encode empty Mat")
	}

	ext, err := fileExt(format)
	if err != nil {
		return nil, err
	}

	buffer, err := gocv.IMEncode(ext, src)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	defer buffer.Close()

	// the native buffer is freed on Close, so hand out a copy
	encoded := buffer.GetBytes()
	out := make([]byte, len(encoded))
	copy(out, encoded)
	return out, nil
}

func fileExt(format string) (gocv.FileExt, error) {
	normalized := strings.ToLower(strings.TrimPrefix(format, "image/"))
	switch normalized {
	case "png":
		return gocv.PNGFileExt, nil
	case "jpeg", "jpg":
		return gocv.JPEGFileExt, nil
	case "tiff", "tif":
		return gocv.FileExt(".tiff"), nil
	case "bmp":
		return gocv.FileExt(".bmp"), nil
	default:
		return "", fmt.Errorf("unsupported encode format: %s", format)
	}
}

func hintOrUnknown(mimeHint string) string {
	if mimeHint == "" {
		return "unknown type"
	}
	return mimeHint
}
