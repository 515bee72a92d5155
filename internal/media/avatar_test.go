package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessAvatarScalesDown(t *testing.T) {
	out, err := ProcessAvatar(encodePNG(t, 800, 600))
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.ContentType)
	assert.Equal(t, "png", out.Ext)
	assert.Equal(t, 400, out.Width)
	assert.Equal(t, 300, out.Height)

	cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
}

func TestProcessAvatarKeepsSmallImages(t *testing.T) {
	out, err := ProcessAvatar(encodePNG(t, 64, 32))
	require.NoError(t, err)
	assert.Equal(t, 64, out.Width)
	assert.Equal(t, 32, out.Height)
}

func TestProcessAvatarJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 500)), nil))

	out, err := ProcessAvatar(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", out.ContentType)
	assert.Equal(t, 8, out.Width)
	assert.Equal(t, 400, out.Height)
}

func TestProcessAvatarRejects(t *testing.T) {
	_, err := ProcessAvatar([]byte("GIF89a not really"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = ProcessAvatar([]byte("plain text, definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = ProcessAvatar(encodePNG(t, 3000, 10))
	assert.ErrorIs(t, err, ErrDimensions)

	_, err = ProcessAvatar(make([]byte, MaxAvatarBytes+1))
	assert.ErrorIs(t, err, ErrTooLarge)
}
