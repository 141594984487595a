package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// CenterCropper crops the largest centred region matching the aspect
// ratio. It never cancels.
type CenterCropper struct{}

// Crop implements Cropper.
func (CenterCropper) Crop(ctx context.Context, img Image, aspect float64) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return Image{}, fmt.Errorf("decode: %w", err)
	}

	rect := centerRect(src.Bounds(), aspect)
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return Image{}, fmt.Errorf("encode: %w", err)
	}
	return Image{
		Data:   buf.Bytes(),
		Format: "png",
		Width:  rect.Dx(),
		Height: rect.Dy(),
		URI:    img.URI,
	}, nil
}

func centerRect(bounds image.Rectangle, aspect float64) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	if aspect <= 0 || w == 0 || h == 0 {
		return bounds
	}
	cw, ch := w, int(float64(w)/aspect)
	if ch > h {
		ch = h
		cw = int(float64(h) * aspect)
	}
	x := bounds.Min.X + (w-cw)/2
	y := bounds.Min.Y + (h-ch)/2
	return image.Rect(x, y, x+cw, y+ch)
}

// DrawResizer scales with Catmull-Rom interpolation and encodes JPEG.
type DrawResizer struct{}

// Resize implements Resizer.
func (DrawResizer) Resize(ctx context.Context, img Image, opts ResizeOptions) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return Image{}, fmt.Errorf("decode: %w", err)
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = src.Bounds().Dx(), src.Bounds().Dy()
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return Image{}, fmt.Errorf("encode: %w", err)
	}
	return Image{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  width,
		Height: height,
		URI:    img.URI,
	}, nil
}
