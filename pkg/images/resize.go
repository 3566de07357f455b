// Package images is the image transformation collaborator: decode whatever
// the client uploaded, crop-resize to the target box and re-encode as JPEG.
package images

import (
	"bytes"
	"io"

	"github.com/disintegration/imaging"

	"github.com/trekora/trekora/pkg/apperr"
)

const jpegQuality = 90

// Resize decodes r, fills width x height (center anchor, Lanczos) and
// returns JPEG bytes. Non-image input yields a validation error.
func Resize(r io.Reader, width, height int) ([]byte, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, "uploaded file is not a valid image", err)
	}
	dst := imaging.Fill(src, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "image encode failed", err)
	}
	return buf.Bytes(), nil
}
