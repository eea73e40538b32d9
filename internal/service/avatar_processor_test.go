package service

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

	"taste-tribe/pkg/apierror"
)

func pngBytes(t *testing.T, width int, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pngHeader returns a PNG that declares width x height in its IHDR chunk but
// carries no pixel data.
func pngHeader(t *testing.T, width uint32, height uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)

	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc(4)
	ihdr := data[:33]
	binary.BigEndian.PutUint32(ihdr[16:20], width)
	binary.BigEndian.PutUint32(ihdr[20:24], height)
	binary.BigEndian.PutUint32(ihdr[29:33], crc32.ChecksumIEEE(ihdr[12:29]))
	return bytes.Clone(ihdr)
}

func TestAvatarProcessor_Process(t *testing.T) {
	t.Parallel()

	t.Run("downscales the longest side", func(t *testing.T) {
		p := NewAvatarProcessor(5<<20, 64, 40_000_000)
		out, err := p.Process(pngBytes(t, 256, 128))
		require.NoError(t, err)

		decoded, err := jpeg.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 64, decoded.Bounds().Dx())
		assert.Equal(t, 32, decoded.Bounds().Dy())
	})

	t.Run("never upscales", func(t *testing.T) {
		p := NewAvatarProcessor(5<<20, 512, 40_000_000)
		out, err := p.Process(pngBytes(t, 40, 20))
		require.NoError(t, err)

		decoded, err := jpeg.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 40, decoded.Bounds().Dx())
	})

	t.Run("rejects oversize payloads", func(t *testing.T) {
		p := NewAvatarProcessor(10, 64, 40_000_000)
		_, err := p.Process(pngBytes(t, 8, 8))
		assert.True(t, apierror.HasCode(err, apierror.CodePayloadTooLarge))
	})

	t.Run("rejects huge dimensions before decoding", func(t *testing.T) {
		header := pngHeader(t, 30000, 30000)
		cfg, err := png.DecodeConfig(bytes.NewReader(header))
		require.NoError(t, err)
		require.Equal(t, 30000, cfg.Width)

		p := NewAvatarProcessor(5<<20, 64, 40_000_000)
		_, err = p.Process(header)
		assert.True(t, apierror.HasCode(err, apierror.CodePayloadTooLarge))
	})

	t.Run("pixel limit is inclusive", func(t *testing.T) {
		p := NewAvatarProcessor(5<<20, 64, 64*32)
		_, err := p.Process(pngBytes(t, 64, 32))
		require.NoError(t, err)

		_, err = p.Process(pngBytes(t, 64, 33))
		assert.True(t, apierror.HasCode(err, apierror.CodePayloadTooLarge))
	})

	t.Run("rejects non images", func(t *testing.T) {
		p := NewAvatarProcessor(5<<20, 64, 40_000_000)
		_, err := p.Process([]byte("definitely not an image"))
		assert.True(t, apierror.HasCode(err, apierror.CodeUnsupportedMediaType))
	})
}
