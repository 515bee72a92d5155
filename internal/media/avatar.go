// Package media validates and normalizes uploaded avatar images.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxAvatarBytes = 5 << 20 // 5 MB
	MaxDimension   = 2048
	AvatarSize     = 400
	jpegQuality    = 85
)

var (
	ErrTooLarge        = errors.New("file is larger than 5 MB")
	ErrUnsupportedType = errors.New("only JPEG, PNG and WebP images are allowed")
	ErrDimensions      = errors.New("image must be at most 2048x2048 pixels")
	ErrCorrupt         = errors.New("image could not be decoded")
)

// Avatar is a processed image ready for storage.
type Avatar struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// ProcessAvatar checks an upload by content, not by its declared type, and
// scales it down to fit AvatarSize x AvatarSize. PNG stays PNG; JPEG and WebP
// are stored as JPEG.
func ProcessAvatar(data []byte) (*Avatar, error) {
	if len(data) > MaxAvatarBytes {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !mt.Is("image/jpeg") && !mt.Is("image/png") && !mt.Is("image/webp") {
		return nil, ErrUnsupportedType
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrCorrupt
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, ErrDimensions
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrCorrupt
	}
	img := fit(src, AvatarSize)

	var buf bytes.Buffer
	out := &Avatar{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	if mt.Is("image/png") {
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		out.ContentType, out.Ext = "image/png", "png"
	} else {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		out.ContentType, out.Ext = "image/jpeg", "jpg"
	}
	out.Data = buf.Bytes()
	return out, nil
}

// fit scales src down, keeping its aspect ratio, so neither side exceeds max.
func fit(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return src
	}
	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
