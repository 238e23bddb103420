package services

import (
	"bytes"

	"github.com/disintegration/imaging"

	"github.com/limitedgamerz39-afk/friendflix/stories/models"
)

// thumbnail renders a JPEG at most ThumbnailWidth wide, preserving aspect ratio.
func thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() > models.ThumbnailWidth {
		img = imaging.Resize(img, models.ThumbnailWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
