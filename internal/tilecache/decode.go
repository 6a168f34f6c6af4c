package tilecache

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

func decode(b []byte) (image.Image, error) {
	if len(b) == 0 {
		return nil, errors.New("empty tile data")
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	return img, err
}
