package media

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrUnavailable is returned when a required collaborator is missing.
	ErrUnavailable = errors.New("media: service unavailable")
	// ErrCanceled is returned when the user dismisses the picker.
	ErrCanceled = errors.New("media: selection canceled")
	// ErrCropCanceled is returned when the crop editor is closed without
	// confirming.
	ErrCropCanceled = errors.New("media: editor was closed")
	// ErrNoFaces is returned when face detection is required and finds none.
	ErrNoFaces = errors.New("media: no faces detected in the image")
)

// Image is an encoded image travelling through the pipeline.
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
	URI    string
}

// Ext returns the file extension used when uploading the image.
func (img Image) Ext() string {
	switch strings.ToLower(img.Format) {
	case "jpeg", "jpg":
		return "jpg"
	case "":
		if i := strings.LastIndex(img.URI, "."); i >= 0 && i < len(img.URI)-1 {
			return img.URI[i+1:]
		}
		return "jpg"
	default:
		return strings.ToLower(img.Format)
	}
}

// ResizeOptions describes the output of a resize stage. Quality is a JPEG
// quality between 1 and 100.
type ResizeOptions struct {
	Width   int
	Height  int
	Quality int
}

// Picker lets the user choose an image.
type Picker interface {
	Pick(ctx context.Context) (Image, error)
}

// Cropper lets the user crop an image to a fixed aspect ratio
// (width / height).
type Cropper interface {
	Crop(ctx context.Context, img Image, aspect float64) (Image, error)
}

// FaceDetector counts faces in an image.
type FaceDetector interface {
	DetectFaces(ctx context.Context, img Image) (int, error)
}

// Resizer scales and re-encodes an image.
type Resizer interface {
	Resize(ctx context.Context, img Image, opts ResizeOptions) (Image, error)
}

// Uploader stores an image under pathname and returns its storage path.
type Uploader interface {
	Upload(ctx context.Context, img Image, ext, pathname string) (string, error)
}

// AssetResolver maps a storage path to a public URL.
type AssetResolver interface {
	PublicURL(path string) string
}

// Deleter removes a previously uploaded image.
type Deleter interface {
	Delete(ctx context.Context, path string) error
}

// PickerFunc adapts a function into a Picker.
type PickerFunc func(ctx context.Context) (Image, error)

// Pick calls the underlying function.
func (fn PickerFunc) Pick(ctx context.Context) (Image, error) { return fn(ctx) }

// FaceDetectorFunc adapts a function into a FaceDetector.
type FaceDetectorFunc func(ctx context.Context, img Image) (int, error)

// DetectFaces calls the underlying function.
func (fn FaceDetectorFunc) DetectFaces(ctx context.Context, img Image) (int, error) {
	return fn(ctx, img)
}

// UploaderFunc adapts a function into an Uploader.
type UploaderFunc func(ctx context.Context, img Image, ext, pathname string) (string, error)

// Upload calls the underlying function.
func (fn UploaderFunc) Upload(ctx context.Context, img Image, ext, pathname string) (string, error) {
	return fn(ctx, img, ext, pathname)
}

// AssetResolverFunc adapts a function into an AssetResolver.
type AssetResolverFunc func(path string) string

// PublicURL calls the underlying function.
func (fn AssetResolverFunc) PublicURL(path string) string { return fn(path) }

// DeleterFunc adapts a function into a Deleter.
type DeleterFunc func(ctx context.Context, path string) error

// Delete calls the underlying function.
func (fn DeleterFunc) Delete(ctx context.Context, path string) error { return fn(ctx, path) }

// Services bundles the host collaborators. Every member is optional.
type Services struct {
	Picker       Picker
	Cropper      Cropper
	FaceDetector FaceDetector
	Resizer      Resizer
	Uploader     Uploader
	Assets       AssetResolver
	Deleter      Deleter
}
