package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"net/http"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"taste-tribe/internal/util"
	"taste-tribe/pkg/apierror"
)

const avatarJPEGQuality = 90

// AvatarProcessor validates an uploaded profile picture and re-encodes it as a
// JPEG no larger than maxDimension on its longest side. Images declaring more
// than maxPixels are rejected from their header before any pixel is decoded.
type AvatarProcessor struct {
	maxBytes     int64
	maxDimension int
	maxPixels    int64
}

func NewAvatarProcessor(maxBytes int64, maxDimension int, maxPixels int64) *AvatarProcessor {
	return &AvatarProcessor{maxBytes: maxBytes, maxDimension: maxDimension, maxPixels: maxPixels}
}

func (p *AvatarProcessor) Process(data []byte) ([]byte, error) {
	if int64(len(data)) > p.maxBytes {
		return nil, apierror.New(apierror.CodePayloadTooLarge, "avatar exceeds the maximum upload size", "", http.StatusRequestEntityTooLarge)
	}

	mimeType := util.DetectMIME(data)
	if !util.IsAvatarMIME(mimeType) {
		return nil, apierror.New(apierror.CodeUnsupportedMediaType, "avatar must be a JPEG, PNG, GIF, WebP or BMP image", mimeType, http.StatusUnsupportedMediaType)
	}

	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apierror.New(apierror.CodeUnsupportedMediaType, "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}
	if header.Width <= 0 || header.Height <= 0 {
		return nil, apierror.New(apierror.CodeUnsupportedMediaType, "invalid image dimensions", "", http.StatusUnsupportedMediaType)
	}
	if int64(header.Width)*int64(header.Height) > p.maxPixels {
		dimensions := fmt.Sprintf("%dx%d", header.Width, header.Height)
		return nil, apierror.New(apierror.CodePayloadTooLarge, "avatar dimensions exceed the pixel limit", dimensions, http.StatusRequestEntityTooLarge)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apierror.New(apierror.CodeUnsupportedMediaType, "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, apierror.New(apierror.CodeUnsupportedMediaType, "invalid image dimensions", "", http.StatusUnsupportedMediaType)
	}

	dst := p.scale(src, bounds)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: avatarJPEGQuality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (p *AvatarProcessor) scale(src image.Image, bounds image.Rectangle) image.Image {
	width := bounds.Dx()
	height := bounds.Dy()

	maxDim := width
	if height > maxDim {
		maxDim = height
	}

	scale := float64(p.maxDimension) / float64(maxDim)
	if scale > 1 {
		scale = 1
	}

	targetWidth := max(int(math.Round(float64(width)*scale)), 1)
	targetHeight := max(int(math.Round(float64(height)*scale)), 1)

	// JPEG has no alpha; paint onto white so transparent PNGs do not turn black.
	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
