package util

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	require.Equal(t, "image/png", DetectMIME(buf.Bytes()))
	require.Equal(t, "text/plain; charset=utf-8", DetectMIME([]byte("hello")))
	require.False(t, IsImageMIME(DetectMIME([]byte("hello"))))
}

func TestIsAvatarMIME(t *testing.T) {
	t.Parallel()

	require.True(t, IsAvatarMIME("image/jpeg"))
	require.True(t, IsAvatarMIME(" IMAGE/WEBP "))
	require.False(t, IsAvatarMIME("image/svg+xml"))
	require.False(t, IsAvatarMIME("application/pdf"))
}

func TestIsAvatarExtension(t *testing.T) {
	t.Parallel()

	require.True(t, IsAvatarExtension(".jpg"))
	require.True(t, IsAvatarExtension(" .PNG "))
	require.False(t, IsAvatarExtension(".avif"))
	require.False(t, IsAvatarExtension(""))
}
